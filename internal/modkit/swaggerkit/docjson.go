//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"qbank/internal/platform/config"

	docs "qbank/internal/services/api/docs"
)

// SpecMutator adjusts the parsed OpenAPI document before it is served.
// Modules register one from init when they need to decorate their own paths
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// docReader is a seam so tests can feed broken JSON without touching swag output
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator; nil is ignored
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		normalizeOAS3(spec, "/api/v1")

		cfg := config.New().Prefix("CORE_API_")
		if suffix := cfg.MayString("DOCS_TITLE_SUFFIX", ""); suffix != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + suffix
				}
			}
		}

		ensureErrorEnvelopeSchema(spec)
		injectDefaultResponses(spec)

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalizeOAS3 lifts swagger 2 output to OAS3 and pins 3.1 down to 3.0.3,
// since the bundled UI cannot render 3.1 yet. Also guarantees a servers array
// so try-it-out requests hit the right base url
func normalizeOAS3(spec map[string]any, baseURL string) {
	if _, legacy := spec["swagger"]; legacy {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}

	switch v, ok := spec["openapi"].(string); {
	case ok && strings.HasPrefix(v, "3.1"):
		spec["openapi"] = "3.0.3"
	case !ok:
		spec["openapi"] = "3.0.3"
	}

	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": baseURL}}
	}
}

// ensureErrorEnvelopeSchema registers the wire envelope model used by every
// error reply. Kept in lockstep with pnet.Wire: success, message, code,
// request_id and a null data slot
func ensureErrorEnvelopeSchema(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorEnvelope"]; ok {
		return
	}
	schemas["ErrorEnvelope"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope; message starts with the error code",
		"properties": map[string]any{
			"success":    map[string]any{"type": "boolean"},
			"message":    map[string]any{"type": "string"},
			"code":       map[string]any{"type": "string"},
			"request_id": map[string]any{"type": "string"},
			"data":       map[string]any{"nullable": true},
		},
		"required": []any{"success", "message"},
	}
}

// injectDefaultResponses walks every operation and fills in 400 and 500
// replies where the annotations left them out, so the docs always show the
// failure shape
func injectDefaultResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}

	defaults := map[string]map[string]any{
		"400": errorReply("Bad Request",
			"MISSING_REQUIRED_FIELD: title is a required field", "MISSING_REQUIRED_FIELD"),
		"500": errorReply("Internal Server Error",
			"INTERNAL_ERROR: panic recovered", "INTERNAL_ERROR"),
	}

	for _, item := range paths {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue // parameters and friends live beside the verbs
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			for status, reply := range defaults {
				if _, exists := responses[status]; !exists {
					responses[status] = reply
				}
			}
		}
	}
}

// errorReply builds one documented error response with a realistic example
func errorReply(description, message, code string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorEnvelope"},
				"example": map[string]any{
					"success":    false,
					"message":    message,
					"code":       code,
					"request_id": "9f2d41c07ab3/qbank-000001",
					"data":       nil,
				},
			},
		},
	}
}
