package env

import (
	"strings"
	"time"
)

const (
	KeyOpenAIAPIKey      = "OPENAI_API_KEY"
	KeyOpenAIModel       = "OPENAI_MODEL_NAME"
	KeyOpenAIBaseURL     = "OPENAI_API_BASE"
	KeyTemperature       = "TEMPERATURE"
	KeySerperAPIKey      = "SERPER_API_KEY"
	KeyLogDir            = "LOG_DIR"
	KeyLogLevel          = "LOG_LEVEL"
	KeyVerbose           = "CREW_VERBOSE"
	KeyRenderMarkdown    = "RENDER_MARKDOWN"
	KeyPageReaderEnabled = "PAGE_READER_ENABLED"
	KeyRunTimeout        = "RUN_TIMEOUT"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultOutputPath = "article.md"
	DefaultLogDir     = "log"
	DefaultLogLevel   = "debug"
)

// Config is resolved once at startup and passed down explicitly; nothing
// below cmd/ reads the environment.
type Config struct {
	AppEnv string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Temperature   float32

	SerperAPIKey string

	OutputPath string
	LogDir     string
	LogLevel   string

	Verbose           bool
	RenderMarkdown    bool
	PageReaderEnabled bool

	// RunTimeout bounds the whole run when positive; zero means no local timeout.
	RunTimeout time.Duration
}

func LoadConfig(e *EnvService) Config {
	return Config{
		AppEnv: e.AppEnv(),

		OpenAIAPIKey:  strings.TrimSpace(e.Get(KeyOpenAIAPIKey)),
		OpenAIModel:   e.GetWithDefault(KeyOpenAIModel, DefaultModel),
		OpenAIBaseURL: e.Get(KeyOpenAIBaseURL),
		Temperature:   e.GetFloat32(KeyTemperature, 0.7),

		SerperAPIKey: strings.TrimSpace(e.Get(KeySerperAPIKey)),

		OutputPath: DefaultOutputPath,
		LogDir:     e.GetWithDefault(KeyLogDir, DefaultLogDir),
		LogLevel:   e.GetWithDefault(KeyLogLevel, DefaultLogLevel),

		Verbose:           e.GetBool(KeyVerbose, true),
		RenderMarkdown:    e.GetBool(KeyRenderMarkdown, true),
		PageReaderEnabled: e.GetBool(KeyPageReaderEnabled, true),

		RunTimeout: e.GetDuration(KeyRunTimeout, 0),
	}
}

// MissingRequired lists required credentials that are not set. A missing
// model key is only a warning here; the first model call fails later.
func (c Config) MissingRequired() []string {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, KeyOpenAIAPIKey)
	}
	return missing
}

// SearchEnabled reports whether the optional search credential is present.
func (c Config) SearchEnabled() bool {
	return c.SerperAPIKey != ""
}
