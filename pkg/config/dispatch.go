package config

// DispatchConfig configures the per-recipient send loop.
type DispatchConfig struct {
	Parallelism int
}

func loadDispatchConfig() DispatchConfig {
	return DispatchConfig{
		Parallelism: getEnvInt("DISPATCH_PARALLELISM", 1),
	}
}
