// Package http provides http transport for banks
package http

import (
	"net"
	stdhttp "net/http"
	"strconv"

	"qbank/internal/modkit/httpkit"
	pnet "qbank/internal/platform/net"
	"qbank/internal/services/api/banks/domain"
	svc "qbank/internal/services/api/banks/service"
	adom "qbank/internal/services/audit/domain"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.BootstrapInput](r, "/", h.bootstrap)
}

type handlers struct{ svc svc.Service }

// @Summary Bootstrap the caller's default question bank
// @Description Provisions one bank with the seeded taxonomy. Repeat calls conflict
// @Tags banks
// @Accept json
// @Produce json
// @Param payload body domain.BootstrapInput true "Bootstrap"
// @Success 201 {object} domain.BootstrapOutput "created"
// @Failure 401 {object} httpkit.Envelope "identity mismatch"
// @Failure 409 {object} httpkit.Envelope "already bootstrapped"
// @Router /banks [post]
func (h *handlers) bootstrap(r *stdhttp.Request, in domain.BootstrapInput) (any, error) {
	principal, err := httpkit.UserInt64(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Bootstrap(r.Context(), principal, auditMeta(r), in)
	if err != nil {
		return nil, err
	}

	hdr := stdhttp.Header{}
	hdr.Set("X-Question-Bank-Id", strconv.FormatInt(out.BankID, 10))
	return httpkit.Response{Status: stdhttp.StatusCreated, Body: out, Header: hdr}, nil
}

// auditMeta lifts the request envelope for security events
func auditMeta(r *stdhttp.Request) adom.Meta {
	return adom.Meta{
		SessionID: r.Header.Get("X-Session-Id"),
		RequestID: pnet.RequestID(r.Context()),
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// clientIP strips the port RemoteAddr usually carries
func clientIP(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
