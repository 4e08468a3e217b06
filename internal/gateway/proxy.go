package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"LaptopStore/internal/auth"
	"LaptopStore/pkg/kit"
)

// NewReverseProxy forwards to target. Upstream failures become a JSON 502.
func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy target %q: missing scheme or host", target)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream error",
				zap.String("upstream", u.Host),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, context.DeadlineExceeded) {
				kit.WriteError(w, r, http.StatusGatewayTimeout, "upstream timeout", nil)
				return
			}
			kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
		},
	}, nil
}

// AuthJWT requires a valid bearer token and stores the caller identity.
func AuthJWT(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := auth.BearerToken(r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}
			claims, err := jwt.Parse(tok)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			id := kit.Identity{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(kit.WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalJWT identifies callers that send a token and lets anonymous ones
// through. A token that is present but invalid is still rejected.
func OptionalJWT(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	required := AuthJWT(jwt)
	return func(next http.Handler) http.Handler {
		withToken := required(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			withToken.ServeHTTP(w, r)
		})
	}
}

func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := kit.IdentityFromContext(r.Context())
			if !ok || id.Role != role {
				kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// InjectHeaders replaces any client-sent identity headers with the verified
// identity, if there is one.
func InjectHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del(kit.HeaderUserID)
		r.Header.Del(kit.HeaderUserRole)

		if id, ok := kit.IdentityFromContext(r.Context()); ok && id.UserID != "" {
			r.Header.Set(kit.HeaderUserID, id.UserID)
			if id.Role != "" {
				r.Header.Set(kit.HeaderUserRole, id.Role)
			}
		}

		next.ServeHTTP(w, r)
	})
}
