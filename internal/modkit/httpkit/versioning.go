package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI nests a versioned subrouter under /api/{version}, applies the
// shared middleware, then hands the scoped router to mount for module
// registration. version may carry a leading slash
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	prefix := "/api/" + strings.TrimPrefix(version, "/")
	r.Route(prefix, func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 mounts under /api/v1, the only version the service serves today
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
