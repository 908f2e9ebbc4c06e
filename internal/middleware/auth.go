// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// AccessTokenClaims is the identity carried by a verified token.
type AccessTokenClaims struct {
	UserID string
	Role   core.Role
}

// Authenticator rejects requests without a verifiable bearer token and
// attaches the token's identity to the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("No token, authorization denied"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			if claims.UserID == "" || !claims.Role.Valid() {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims)))
		})
	}
}

// RequireRole admits only identities whose role is in roles. An empty list
// admits any authenticated identity. It must run after Authenticator.
func RequireRole(roles ...core.Role) func(http.Handler) http.Handler {
	allowed := make(map[core.Role]struct{}, len(roles))
	for _, role := range roles {
		if !role.Valid() {
			panic(fmt.Sprintf("middleware: RequireRole with unknown role %q", role))
		}
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if len(allowed) > 0 {
				if _, ok := allowed[userRole]; !ok {
					core.JSONError(
						w,
						core.ForbiddenError("Access denied: Unauthorized role"),
					)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Guard chains Authenticator and RequireRole.
func Guard(
	verifier TokenVerifier,
	roles ...core.Role,
) func(http.Handler) http.Handler {
	authenticate := Authenticator(verifier)
	authorize := RequireRole(roles...)

	return func(next http.Handler) http.Handler {
		return authenticate(authorize(next))
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	if errors.Is(err, core.ErrTokenExpired) {
		core.JSONError(w, core.TokenExpiredError())
		return
	}

	core.JSONError(w, core.TokenInvalidError())
}

func WithIdentity(ctx context.Context, claims *AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, UserRoleKey, claims.Role)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) core.Role {
	if role, ok := ctx.Value(UserRoleKey).(core.Role); ok {
		return role
	}
	return ""
}
