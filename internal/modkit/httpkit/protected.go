package httpkit

import (
	"qbank/internal/platform/net/middleware"
)

// Protected groups routes behind bearer auth. Routes registered inside
// fn only run once the port has resolved a principal onto the context
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
