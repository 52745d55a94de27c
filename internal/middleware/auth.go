package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

const SecretHeader = "X-Fitlog-Secret"

// SecretAuth checks the shared secret header against a bcrypt hash.
// An empty hash disables the check.
type SecretAuth struct {
	secretHash   string
	allowedPaths map[string]bool

	// last secret that matched the hash, so bcrypt runs once per secret
	mu       sync.RWMutex
	accepted []byte
}

func NewSecretAuth(secretHash string) *SecretAuth {
	return &SecretAuth{
		secretHash: secretHash,
		allowedPaths: map[string]bool{
			"/":        true,
			"/health":  true,
			"/version": true,
		},
	}
}

func (a *SecretAuth) Enabled() bool {
	return a.secretHash != ""
}

func (a *SecretAuth) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if !a.Enabled() || a.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			secret := strings.TrimSpace(r.Header.Get(SecretHeader))
			if secret == "" {
				log.Tracef("[missing secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-secret")
				return
			}

			if !a.check(secret) {
				log.Warnf("[invalid secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}

func (a *SecretAuth) check(secret string) bool {
	a.mu.RLock()
	accepted := a.accepted
	a.mu.RUnlock()
	if accepted != nil && subtle.ConstantTimeCompare(accepted, []byte(secret)) == 1 {
		return true
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.secretHash), []byte(secret)); err != nil {
		return false
	}

	a.mu.Lock()
	a.accepted = []byte(secret)
	a.mu.Unlock()
	return true
}
