// Package web serves the colorpal upload page and its JSON and PNG API.
package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colorpal/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Application holds the dependencies shared by all handlers. Handlers keep
// no per-request state on it, so requests run in parallel without locks.
type Application struct {
	Config    config.Config
	Logger    hclog.Logger
	templates *template.Template
}

// New validates cfg and builds an Application. A nil logger discards output.
func New(cfg config.Config, logger hclog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Application{
		Config:    cfg,
		Logger:    logger.Named("http"),
		templates: tmpl,
	}, nil
}
