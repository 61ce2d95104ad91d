package config

import "time"

// RelayConfig configures the outbound mail relay.
type RelayConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	Timeout     time.Duration
	AWSRegion   string
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
}

func loadRelayConfig() RelayConfig {
	return RelayConfig{
		Provider:    getEnv("RELAY_PROVIDER", "console"),
		FromAddress: getEnv("RELAY_FROM_ADDRESS", getEnv("EMAIL_FROM_ADDRESS", "noreply@scriven.dev")),
		FromName:    getEnv("RELAY_FROM_NAME", getEnv("EMAIL_FROM_NAME", "Scriven")),
		Timeout:     getEnvDuration("RELAY_TIMEOUT", 15*time.Second),
		AWSRegion:   getEnv("RELAY_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
	}
}
