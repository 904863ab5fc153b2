package tool

import (
	"net/http"
	"strings"
	"time"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/infrastructure/search/serper"
)

type SearchConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewSearchTools returns the web search tool when a credential is configured
// and an empty slice otherwise.
func NewSearchTools(cfg SearchConfig, logger output.LoggerPort) []output.ToolPort {
	if strings.TrimSpace(cfg.APIKey) == "" {
		if logger != nil {
			logger.Warn("SERPER_API_KEY is not set, web search disabled")
		}
		return []output.ToolPort{}
	}

	clientCfg := serper.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.Timeout = cfg.Timeout
	}
	clientCfg.HTTPClient = cfg.HTTPClient
	clientCfg.Logger = logger

	return []output.ToolPort{NewWebSearchTool(serper.NewClient(clientCfg), logger)}
}
