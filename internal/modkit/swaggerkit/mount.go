// Package swaggerkit mounts the Swagger UI and the generated OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "qbank/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount wires /api/docs when enabled: the UI, its assets and doc.json.
// With enabled false nothing is registered at all
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}

	// bare /api/docs must land on the UI index, not a 404
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})

	r.Get("/api/docs/doc.json", serveDocJSON())

	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
