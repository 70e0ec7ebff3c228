// Package manager ties the pipeline together. A Manager loads the
// configuration, decorates each destination (batching inside, thread
// dispatch outside), runs the dispatch executor and the scheduler, and
// hands out one CategoryLogger per category.
//
// Typical use:
//
//	m := manager.New()
//	err := m.Initialize(ctx, []destination.Destination{console.New(console.Config{})}, config.File("sinklog.yaml"), "")
//	if err != nil {
//		return err
//	}
//	defer m.Dispose()
//
//	log := m.CreateLogger("Net")
//	log.LogInfo("connected", nil)
//
// A Manager is an explicit object rather than process-wide state; pass it
// (or the loggers it creates) to the code that logs.
package manager
