// Package store persists the latest text of the documents served by the
// layoutd daemon, so editor sessions survive a restart.
//
// Two backends implement Backend:
//
//   - MemoryBackend: a mutex-protected map, the default
//   - SQLiteBackend: a SQLite file in WAL mode (modernc.org/sqlite, no cgo)
//
// Only the raw YAML is stored. Parsed trees are rebuilt by re-parsing on
// load, so the schema never depends on the object model.
//
// # Usage
//
//	backend, err := store.Open(cfg.Store)
//	if err != nil {
//	    return err
//	}
//	backend = store.Instrument(backend, collector)
//	defer backend.Close()
//
//	err = backend.Save(ctx, &store.Document{ID: "sales", Text: text})
//	doc, err := backend.Load(ctx, "sales") // nil, nil when missing
//
// # Retention
//
// Scheduler deletes documents that were not updated within a maximum age,
// on a cron schedule:
//
//	sched := store.NewScheduler(backend, "0 3 * * *", 30*24*time.Hour, logger, collector)
//	g.Go(func() error { return sched.Run(ctx) })
package store
