// Package api provides the HTTP API for the application
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"qbank/internal/platform/config"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/metrics"
	phttp "qbank/internal/platform/net/http"
	"qbank/internal/platform/store"

	"qbank/internal/modkit"
	"qbank/internal/modkit/httpkit"
	"qbank/internal/modkit/module"
	"qbank/internal/modkit/swaggerkit"

	banksmod "qbank/internal/services/api/banks/module"
	metamod "qbank/internal/services/api/meta/module"
	questionsmod "qbank/internal/services/api/questions/module"

	bdom "qbank/internal/services/api/banks/domain"
	adom "qbank/internal/services/audit/domain"
	auditmod "qbank/internal/services/audit/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Handle
	AuthSecret     string
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router. The returned
// audit worker is the sink run loop; the caller owns running and
// draining it
func Mount(r phttp.Router, opt Options) adom.WorkerPort {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		PG:      opt.Store.PG,
		CH:      opt.Store.CH,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// Construct the audit sink first; every write module records
	// security events through its Recorder port
	audit := auditmod.New(deps, auditmod.Options{})
	auditPorts := module.MustPortsOf[auditmod.Ports](audit)

	// banks owns the ownership and taxonomy probes questions admits
	// writes against
	banks := banksmod.New(deps, modkit.WithPorts(banksmod.Ports{
		Audit: auditPorts.Recorder,
	}))
	questions := questionsmod.New(deps, modkit.WithPorts(questionsmod.Ports{
		Audit:     auditPorts.Recorder,
		Ownership: module.MustPortsOf[bdom.OwnershipPort](banks),
		Taxonomy:  module.MustPortsOf[bdom.TaxonomyPort](banks),
	}))
	meta := metamod.New(deps)

	authPort := httpkit.NewPortFunc(bearerParser([]byte(opt.AuthSecret)))

	// versioned API with the common middleware stack; CORS_ORIGINS
	// narrows cross-origin access when set
	stack := httpkit.CommonStack(opt.Config.MayCSV("CORS_ORIGINS", nil)...)
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// register each module's ports under its own name (for cross-module lookups)
		for _, m := range []module.Module{audit, meta, banks, questions} {
			module.Register(m.Name(), m.Ports())
		}

		// meta stays open; bank and question routes require a bearer principal
		meta.MountRoutes(api)
		httpkit.Protected(api, authPort, func(secured httpkit.Router) {
			banks.MountRoutes(secured)
			questions.MountRoutes(secured)
		})
	})

	return auditPorts.Worker
}

// bearerParser verifies "user_id:signature" bearer tokens, where the
// signature is hex HMAC-SHA256 of the user id under the shared secret.
// An empty secret (dev) accepts a bare numeric token
func bearerParser(secret []byte) httpkit.TokenFunc {
	return func(token string) (string, error) {
		id, sig, signed := strings.Cut(token, ":")
		if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
			return "", perr.Unauthorizedf("invalid bearer token")
		}
		if len(secret) == 0 && !signed {
			return id, nil
		}
		mac := hmac.New(sha256.New, secret)
		mac.Write([]byte(id))
		want := hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(sig), []byte(want)) {
			return "", perr.Unauthorizedf("invalid bearer token")
		}
		return id, nil
	}
}
