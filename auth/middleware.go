package auth

import (
	"errors"
	"net/http"
)

// FailureFunc writes the response for a rejected request.
type FailureFunc func(w http.ResponseWriter, r *http.Request, status int, err error)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// Authenticator validates requests. Nil disables authentication.
	Authenticator Authenticator

	// RequiredRole, if set, must be held by the identity.
	RequiredRole string

	// OnFailure writes rejections. Default: plain text error.
	OnFailure FailureFunc
}

// Middleware authenticates requests before calling next. Missing or bad
// credentials get 401, a missing role 403 and internal errors 500.
func Middleware(cfg MiddlewareConfig, next http.Handler) http.Handler {
	fail := cfg.OnFailure
	if fail == nil {
		fail = defaultFailure
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.Authenticator == nil {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), AnonymousIdentity())))
			return
		}

		req := &AuthRequest{Headers: r.Header}
		if !cfg.Authenticator.Supports(r.Context(), req) {
			fail(w, r, http.StatusUnauthorized, ErrMissingCredentials)
			return
		}
		result, err := cfg.Authenticator.Authenticate(r.Context(), req)
		if err != nil {
			fail(w, r, http.StatusInternalServerError, err)
			return
		}
		if !result.Authenticated {
			fail(w, r, http.StatusUnauthorized, result.Error)
			return
		}
		if cfg.RequiredRole != "" && !result.Identity.HasRole(cfg.RequiredRole) {
			fail(w, r, http.StatusForbidden, ErrForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), result.Identity)))
	})
}

func defaultFailure(w http.ResponseWriter, _ *http.Request, status int, err error) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="snipfmt"`)
	}
	msg := http.StatusText(status)
	if err != nil && !errors.Is(err, ErrMissingCredentials) && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}
