package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/vyacheslafka/cloudstorage-server/internal/server/auth"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/services"
)

type contextKey string

const (
	ownerContextKey   contextKey = "owner"
	tokenIDContextKey contextKey = "tokenID"
)

// requireAuth validates the bearer token, resolves its session, and puts the
// owner (account id + vault secret) into the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "not authorized")
			return
		}

		claims, err := auth.ParseToken(tokenString, s.jwtSecret)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		session, err := s.sessions.Get(claims.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, services.Owner{
			ID:     session.AccountID,
			Secret: session.Secret,
		})
		ctx = context.WithValue(ctx, tokenIDContextKey, claims.ID)

		next(w, r.WithContext(ctx))
	}
}

func ownerFromContext(ctx context.Context) services.Owner {
	owner, _ := ctx.Value(ownerContextKey).(services.Owner)
	return owner
}

func tokenIDFromContext(ctx context.Context) string {
	tokenID, _ := ctx.Value(tokenIDContextKey).(string)
	return tokenID
}
