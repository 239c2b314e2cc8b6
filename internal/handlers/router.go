package handlers

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ollyware/tokend/internal/handlers/middleware"
	"github.com/ollyware/tokend/internal/logger"
	"github.com/ollyware/tokend/internal/service/license"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	licenses licenseService,
	adminKey string,
	metrics *middleware.HTTPMetrics,
	logger logger.Logger,
) http.Handler {
	withAdmin := middleware.AdminAuthMiddleware(adminKey)

	admin := http.NewServeMux()
	admin.Handle("POST /verify", handleAdminInspect(licenses, logger))
	admin.Handle("POST /unbind", handleAdminUnbind(licenses, logger))
	admin.Handle("POST /revoke", handleAdminRevoke(licenses, logger))

	root := http.NewServeMux()
	root.Handle("POST /generate", handleGenerate(licenses, logger))
	root.Handle("POST /verify", handleVerify(licenses, logger))
	root.Handle("/admin/", http.StripPrefix("/admin", withAdmin(admin)))

	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Handle("GET /metrics", promhttp.Handler())

	mds := []func(http.Handler) http.Handler{
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(logger),
	}
	if metrics != nil {
		mds = append(mds, metrics.Middleware())
	}

	return chain(root, mds...)
}

type licenseService interface {
	// Issue a fresh token for the named plan (matched case-insensitively)
	// Has to return apperrors.ErrInvalidPlan for unknown plans
	Generate(ctx context.Context, plan string) (license.GeneratedToken, error)

	// Verify token and bind hwid on first use
	// Checks in order: existence, revocation, expiry, hwid binding
	// Returns apperrors.ErrTokenNotFound / ErrTokenRevoked / ErrTokenExpired / ErrHWIDMismatch
	Verify(ctx context.Context, token string, hwid string) error

	// Return token state including remaining lifetime
	// Has to return apperrors.ErrTokenNotFound if token is absent
	Inspect(ctx context.Context, token string) (license.TokenInfo, error)

	// Idempotent admin operations; no error for missing tokens
	Unbind(ctx context.Context, token string) (affected int64, err error)
	Revoke(ctx context.Context, token string) (affected int64, err error)
}
