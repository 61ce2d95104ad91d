package config

import "time"

// AIConfig configures the completion provider used for drafting.
type AIConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Timeout     time.Duration
	AWSRegion   string
	Temperature float64
	MaxTokens   int
}

func loadAIConfig() AIConfig {
	return AIConfig{
		Provider:    getEnv("AI_PROVIDER", "anthropic"),
		Model:       getEnv("AI_MODEL", ""),
		APIKey:      getEnv("AI_API_KEY", ""),
		Timeout:     getEnvDuration("AI_TIMEOUT", 60*time.Second),
		AWSRegion:   getEnv("AI_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		Temperature: 0.7,
		MaxTokens:   getEnvInt("AI_MAX_TOKENS", 1000),
	}
}
