package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultIdentityHeader carries the authenticated user id set by the upstream proxy.
const DefaultIdentityHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID returns a context carrying the requesting user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the requesting user's id, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// Identity copies a trusted upstream header into the request context.
// The header must be set by an authenticating proxy; this service does not authenticate users itself.
type Identity struct {
	header    string
	operators map[string]struct{}
	logger    *zap.Logger
}

// NewIdentity creates the identity middleware. An empty header uses DefaultIdentityHeader.
func NewIdentity(header string, logger *zap.Logger) *Identity {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return &Identity{header: header, logger: logger}
}

// WithOperators sets the user ids allowed through RequireOperator.
func (i *Identity) WithOperators(ids []string) *Identity {
	i.operators = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			i.operators[id] = struct{}{}
		}
	}
	return i
}

// Middleware attaches the identity when present and never rejects.
func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(i.header)); id != "" {
			r = r.WithContext(WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without an identity with 401.
func (i *Identity) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			i.logger.Warn("Request without identity rejected",
				zap.String("path", r.URL.Path),
				zap.String("header", i.header),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOperator rejects requests without an identity with 401 and
// identities that are not operators with 403. No operators means no access.
func (i *Identity) RequireOperator(next http.Handler) http.Handler {
	return i.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := UserIDFromContext(r.Context())
		if _, ok := i.operators[userID]; !ok {
			i.logger.Warn("Operator route denied",
				zap.String("path", r.URL.Path),
				zap.String("user_id", userID),
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
