package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
)

// ClaimsTokener resolves the caller identity carried by a bearer token.
type ClaimsTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// authErrorResponse is the error envelope written on rejected requests,
// matching the handlers' envelope.
type authErrorResponse struct {
	Error string `json:"error"`
}

// AuthMiddleware rejects requests whose bearer token does not resolve to
// claims, so an expired or tampered token never reaches a handler.
func AuthMiddleware(tokener ClaimsTokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "path", r.URL.Path, "err", err)
				unauthorized(w)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "path", r.URL.Path, "err", err)
				unauthorized(w)
				return
			}

			logger.Log.Debugw("request authorized", "path", r.URL.Path, "userID", claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authErrorResponse{Error: "Unauthorized"})
}
