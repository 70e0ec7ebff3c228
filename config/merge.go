package config

// Merge overlays newer onto c. Scalars of newer are authoritative; lists,
// nested blocks and options are copied only when newer sets them, so
// fields an older schema does not know keep their current values.
func (c *Configuration) Merge(newer Configuration) {
	c.Muted = newer.Muted
	c.MinLevel = newer.MinLevel
	c.IsThreadSafe = newer.IsThreadSafe
	c.ShowTimestamp = newer.ShowTimestamp

	if len(newer.CategoryOverrides) > 0 {
		c.CategoryOverrides = append([]CategoryOverride(nil), newer.CategoryOverrides...)
	}
	if !newer.Batch.IsZero() {
		c.Batch = newer.Batch
	}
	c.DebugMode.mergeFrom(newer.DebugMode)
	if newer.ThreadDispatch != (ThreadDispatchConfig{}) {
		c.ThreadDispatch = newer.ThreadDispatch
	}
	if len(newer.StackTraces) > 0 {
		c.StackTraces = MergeStackTraces(c.StackTraces, newer.StackTraces)
	}
	for k, v := range newer.Options {
		if v == "" {
			continue
		}
		if c.Options == nil {
			c.Options = make(map[string]string, len(newer.Options))
		}
		c.Options[k] = v
	}
}

func (d *DebugModeConfig) mergeFrom(newer DebugModeConfig) {
	d.Enabled = newer.Enabled
	d.MinLevel = newer.MinLevel
	if len(newer.IDs) > 0 {
		d.IDs = append([]string(nil), newer.IDs...)
	}
	if len(newer.CategoryOverrides) > 0 {
		d.CategoryOverrides = append([]CategoryOverride(nil), newer.CategoryOverrides...)
	}
}
