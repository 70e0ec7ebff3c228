// Package logger is the application-facing API of the pipeline.
//
// A CategoryLogger is bound to one category and a fixed list of
// destinations. Each call walks the list, asks every destination whether
// it admits the level for the category, and delivers to the ones that do.
// Formatting and attribute enrichment (timestamp, global tags, stack trace)
// happen lazily, so a call no destination admits costs one admission check
// per destination and nothing else.
//
// Destinations that are not thread safe and have no dispatch configured
// only receive calls made on the owning goroutine.
//
// Fallback is a Logger that writes to the diagnostics baseline. The
// manager hands it out while it is not running:
//
//	log := mgr.CreateLogger("Net")
//	log.LogWarning("retrying", logger.Attrs(core.Important, logger.Int("attempt", 2)))
//
// WithSubCategory prefixes messages with a sub-category:
//
//	dial := logger.WithSubCategory(log, "Dial")
//	dial.LogInfo("connected", nil) // "Dial connected"
package logger
