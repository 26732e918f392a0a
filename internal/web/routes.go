package web

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/rs/cors"
)

// Routes builds the application's handler tree.
func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	// Page
	mux.HandleFunc("GET /{$}", app.index)
	mux.HandleFunc("POST /{$}", app.uploadPage)

	// API, callable cross-origin. Preflight requests are answered by cors.
	api := cors.New(cors.Options{
		AllowedOrigins: app.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		Logger:         app.Logger.Named("cors").StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Trace}),
		Debug:          app.Logger.IsTrace(),
	})
	mux.Handle("/api/v1/palette", api.Handler(http.HandlerFunc(app.apiPalette)))
	mux.Handle("/api/v1/swatches.png", api.Handler(http.HandlerFunc(app.apiSwatches)))

	// Operations
	mux.HandleFunc("GET /healthz", app.health)
	mux.HandleFunc("GET /version", app.versionInfo)

	return app.logRequests(mux)
}
