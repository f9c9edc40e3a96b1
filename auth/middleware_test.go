package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(PrincipalFromContext(r.Context())))
	})
}

func TestMiddleware_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	Middleware(MiddlewareConfig{}, echoPrincipal()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload-snippet", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("got %d %q, want 200 anonymous", rec.Code, rec.Body.String())
	}
}

func TestMiddleware(t *testing.T) {
	store := NewMemoryAPIKeyStore()
	store.AddKey("ci", "good", "uploader")
	store.AddKey("viewer", "readonly")
	authn := NewCompositeAuthenticator(
		NewAPIKeyAuthenticator(APIKeyConfig{}, store),
		NewJWTAuthenticator(JWTConfig{Secret: testSecret}),
	)
	h := Middleware(MiddlewareConfig{Authenticator: authn, RequiredRole: "uploader"}, echoPrincipal())

	tests := []struct {
		name     string
		key      string
		wantCode int
		wantBody string
	}{
		{"valid key", "good", http.StatusOK, "ci"},
		{"missing credentials", "", http.StatusUnauthorized, ""},
		{"bad key", "bad", http.StatusUnauthorized, ""},
		{"missing role", "readonly", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload-snippet", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 should carry WWW-Authenticate")
			}
		})
	}
}

func TestMiddleware_CustomFailure(t *testing.T) {
	var gotStatus int
	cfg := MiddlewareConfig{
		Authenticator: NewAPIKeyAuthenticator(APIKeyConfig{}, NewMemoryAPIKeyStore()),
		OnFailure: func(w http.ResponseWriter, _ *http.Request, status int, _ error) {
			gotStatus = status
			w.WriteHeader(http.StatusTeapot)
		},
	}
	rec := httptest.NewRecorder()
	Middleware(cfg, echoPrincipal()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if gotStatus != http.StatusUnauthorized || rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, code = %d", gotStatus, rec.Code)
	}
}
