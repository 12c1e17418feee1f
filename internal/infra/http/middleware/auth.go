package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/xavierca1/garage-leads/internal/usecase"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// TokenVerifier is satisfied by *usecase.AdminAuthUseCase.
type TokenVerifier interface {
	Verify(token string) (*usecase.AdminClaims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// AdminAuth rejects requests without a valid admin token.
func AdminAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Verify(BearerToken(r))
			if err != nil {
				status := http.StatusUnauthorized
				code := usecase.CodeInvalidToken
				message := "Unauthorized"
				var de *usecase.DomainError
				var te *usecase.TechnicalError
				switch {
				case errors.As(err, &de):
					code = de.Code
					message = de.Message
					if de.Code == usecase.CodeForbidden {
						status = http.StatusForbidden
					}
				case errors.As(err, &te):
					status = http.StatusInternalServerError
					code = te.Code
					message = te.Message
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the claims stored by AdminAuth.
func AdminFromContext(ctx context.Context) (*usecase.AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*usecase.AdminClaims)
	return claims, ok
}
