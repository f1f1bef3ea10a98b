// Package worker serializes access to a parsed layout document.
//
// A Worker runs one goroutine that owns the current *ast.Document. Callers
// send requests with Do and receive the matching response; requests are
// handled one at a time in arrival order, and each Parse replaces the whole
// document before the next request is read. This is the request/response
// protocol an editor uses to keep its preview pane in sync:
//
//	Parse{Text}                              -> Parsed{Objects, Title, Navigation}
//	ParseAndSetSelection{Text, Start, End}   -> ParsedAndSetSelection{Objects, SelectedObject, Page}
//	GetClosestObject{Start, End}             -> ClosestObject{Object, Page}
//	GetObjectById{ID}                        -> ObjectById{Object}
//
// # Usage
//
//	w := worker.New(parser.NewParser(), worker.WithLogger(logger))
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	resp, err := w.Do(ctx, worker.ParseRequest(text))
//
// # Debouncing
//
// Re-parsing on every keystroke is wasted work. Debouncer holds the latest
// callback until the buffer has been quiet for its interval (200ms by
// default):
//
//	d := worker.NewDebouncer(0)
//	defer d.Stop()
//	d.Trigger(func() { _, _ = w.Do(ctx, worker.ParseRequest(latest)) })
package worker
