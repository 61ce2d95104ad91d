package llm

// ChatOptions holds tunable parameters for a chat call
type ChatOptions struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
}

// Option is a functional option for chat calls
type Option func(*ChatOptions)

// DefaultOptions returns the baseline chat options; providers fill in their
// own default model.
func DefaultOptions() *ChatOptions {
	return &ChatOptions{}
}

// WithModel overrides the provider's default model
func WithModel(model string) Option {
	return func(o *ChatOptions) {
		o.Model = model
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float32) Option {
	return func(o *ChatOptions) {
		o.Temperature = t
	}
}

// WithTopP sets nucleus sampling
func WithTopP(p float32) Option {
	return func(o *ChatOptions) {
		o.TopP = p
	}
}

// WithMaxTokens bounds the completion length
func WithMaxTokens(n int) Option {
	return func(o *ChatOptions) {
		o.MaxTokens = n
	}
}

// WithStop sets stop sequences
func WithStop(stop ...string) Option {
	return func(o *ChatOptions) {
		o.Stop = stop
	}
}
