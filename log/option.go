package log

// Option modifies a logger configuration. Options are applied in order, so
// a later option overrides an earlier one.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}
