/*
Package cli provides command-line helpers for the layoutd command.

Output Formatting:

Commands print either text or JSON. Result types such as Outline,
Navigation, Selection and CheckReport render themselves in text mode and
marshal to the same shapes as the HTTP API in JSON mode:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	formatter := cli.NewFormatter(format)
	return formatter.FormatTo(os.Stdout, cli.Outline{Objects: doc.Objects()})

Progress Reporting:

"layoutd check" reports progress on stderr while it parses many files:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for i, f := range files {
		// Parse f
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	go cli.HandleReload(ctx, reloadConfig)
*/
package cli
