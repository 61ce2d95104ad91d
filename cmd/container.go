// cmd/container.go
//
// Root composition root. Owns the completion provider and mail relay and
// wires the draft/dispatch services behind the compose handlers. This is the
// only place that knows about ALL modules.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/scriven-ai/scriven/pkg/ai/llm"
	"github.com/scriven-ai/scriven/pkg/ai/providers/aianthropic"
	"github.com/scriven-ai/scriven/pkg/ai/providers/aibedrock"
	"github.com/scriven-ai/scriven/pkg/ai/providers/aigemini"
	"github.com/scriven-ai/scriven/pkg/ai/providers/aiopenai"
	"github.com/scriven-ai/scriven/pkg/compose"
	"github.com/scriven-ai/scriven/pkg/config"
	"github.com/scriven-ai/scriven/pkg/dispatch"
	"github.com/scriven-ai/scriven/pkg/draft"
	"github.com/scriven-ai/scriven/pkg/logx"
	"github.com/scriven-ai/scriven/pkg/relay"
	"github.com/scriven-ai/scriven/pkg/relay/relayconsole"
	"github.com/scriven-ai/scriven/pkg/relay/relayses"
	"github.com/scriven-ai/scriven/pkg/relay/relaysmtp"
)

// Container holds shared infrastructure and composed services.
type Container struct {
	Config config.Config

	// Infrastructure (external collaborators)
	AI    llm.LLM
	Relay relay.Relay

	// Services
	DraftService    *draft.Service
	DispatchService *dispatch.Service
	ComposeHandlers *compose.Handlers
}

func NewContainer(cfg config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initAIProvider()
	c.initRelay()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — completion provider, mail relay
// ---------------------------------------------------------------------------

func (c *Container) initAIProvider() {
	switch c.Config.AI.Provider {
	case "anthropic":
		c.AI = aianthropic.NewAnthropicProvider(c.Config.AI.APIKey)
		logx.Info("  ✅ Anthropic completion provider configured")

	case "openai":
		c.AI = aiopenai.NewOpenAIProvider(c.Config.AI.APIKey)
		logx.Info("  ✅ OpenAI completion provider configured")

	case "gemini":
		provider, err := aigemini.NewGeminiProvider(context.Background(), c.Config.AI.APIKey)
		if err != nil {
			logx.Fatalf("Failed to initialize Gemini provider: %v", err)
		}
		c.AI = provider
		logx.Info("  ✅ Gemini completion provider configured")

	case "bedrock":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(c.Config.AI.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.AI = aibedrock.NewBedrockProvider(awsCfg)
		logx.Infof("  ✅ Bedrock completion provider configured (region: %s)", c.Config.AI.AWSRegion)

	default:
		logx.Fatalf("Unknown AI_PROVIDER: %s (use 'anthropic', 'openai', 'gemini', or 'bedrock')", c.Config.AI.Provider)
	}
}

func (c *Container) initRelay() {
	relayCfg := c.Config.Relay

	switch relayCfg.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(relayCfg.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.Relay = relayses.NewSESRelay(ses.NewFromConfig(awsCfg), relayCfg.FromAddress, relayCfg.FromName)
		logx.Infof("  ✅ SES relay configured (region: %s, from: %s)", relayCfg.AWSRegion, relayCfg.FromAddress)

	case "smtp":
		if relayCfg.SMTPHost == "" {
			logx.Fatal("SMTP_HOST is required when RELAY_PROVIDER=smtp")
		}
		c.Relay = relaysmtp.NewSMTPRelay(
			relayCfg.SMTPHost, relayCfg.SMTPPort,
			relayCfg.SMTPUser, relayCfg.SMTPPass,
			relayCfg.FromAddress, relayCfg.FromName,
		)
		logx.Infof("  ✅ SMTP relay configured (host: %s:%s)", relayCfg.SMTPHost, relayCfg.SMTPPort)

	case "console":
		c.Relay = relayconsole.NewConsoleRelay()
		logx.Info("  ✅ Console relay configured (dev mode, nothing is actually sent)")

	default:
		logx.Fatalf("Unknown RELAY_PROVIDER: %s (use 'ses', 'smtp', or 'console')", relayCfg.Provider)
	}
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	c.DraftService = draft.NewService(
		c.AI,
		c.Config.AI.Model,
		float32(c.Config.AI.Temperature),
		c.Config.AI.MaxTokens,
	)

	c.DispatchService = dispatch.NewService(
		c.Relay,
		c.Config.Relay.FromAddress,
		c.Config.Relay.FromName,
		c.Config.Dispatch.Parallelism,
		c.Config.Relay.Timeout,
	)

	c.ComposeHandlers = compose.NewHandlers(
		c.DraftService,
		c.DispatchService,
		c.Config.AI.Timeout,
	)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")
	// The completion provider and relay hold no persistent connections.
}
