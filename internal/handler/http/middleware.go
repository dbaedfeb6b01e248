package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/middleware"
)

type contextKey string

const anonymousTokenKey contextKey = "anonymous_token"

// fingerprintPrefix marks tokens derived from the client address instead of
// a cookie, so both kinds never collide.
const fingerprintPrefix = "fp:"

// IdentityConfig configures the anonymous identity cookie.
type IdentityConfig struct {
	CookieName          string
	MaxAge              time.Duration
	Secure              bool
	FingerprintFallback bool
}

// AnonymousIdentity stores the caller's anonymous token in the request
// context. A valid cookie always wins. FingerprintFallback selects the
// strategy for callers without one: when set they are identified by client
// fingerprint and no cookie is issued, so cookieless clients keep a stable
// identity; otherwise they get a fresh UUIDv7 cookie that also applies to
// the current request.
func AnonymousIdentity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromCookie(r, cfg.CookieName)
			switch {
			case ok:
			case cfg.FingerprintFallback:
				token = fingerprint(r)
			default:
				id, err := uuid.NewV7()
				if err != nil {
					id = uuid.New()
				}
				token = id.String()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), anonymousTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// fingerprint hashes the client IP and user agent.
func fingerprint(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	sum := sha256.Sum256([]byte(host + " " + r.UserAgent()))
	return fingerprintPrefix + hex.EncodeToString(sum[:])
}

func anonymousTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(anonymousTokenKey).(string)
	return token
}

// actorFromRequest combines the bearer token claims and the anonymous token
// of r into an Actor.
func actorFromRequest(r *http.Request) domain.Actor {
	actor := domain.Actor{AnonymousToken: anonymousTokenFromContext(r.Context())}
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		actor.Principal = &domain.Principal{UserID: claims.UserID, Role: claims.Role}
	}
	return actor
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
