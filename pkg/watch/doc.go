// Package watch follows a layout file on disk and re-parses it on change.
//
// It backs the "layoutd watch" command:
//
//	fw, err := watch.NewFileWatcher("dashboard.yaml", cfg.Watch.Debounce, logger)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//
//	return fw.Watch(ctx, watch.ParseInto(ctx, w, func(resp worker.Response, err error) {
//	    // print resp.Title, resp.Navigation ...
//	}))
//
// Bursts of file events are collapsed with worker.Debouncer, so an editor
// that truncates and then writes a file produces one parse.
package watch
