//go:build !swag

package swaggerkit

import "net/http"

// Without the swag tag there is no generated docs package; a skeleton
// document keeps the UI loadable in dev builds
const skeletonDoc = `{"openapi":"3.0.3","info":{"title":"qbank API","version":"0.0.0"},"paths":{}}`

var docReader = func() string { return skeletonDoc }

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
