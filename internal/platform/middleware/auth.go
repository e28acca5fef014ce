package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	"licensehub/pkg/platform/httputil"
	pstrings "licensehub/pkg/platform/strings"
	"licensehub/pkg/requestcontext"
)

// ErrNoAdminRole is returned for a valid token that carries no admin role.
var ErrNoAdminRole = errors.New("token carries no admin role")

// AdminClaims are the portal access-token claims the license routes rely on.
type AdminClaims struct {
	Roles          []string `json:"roles"`
	OrganizationID int64    `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator verifies HS256 portal access tokens.
type TokenValidator struct {
	key    []byte
	issuer string
}

// NewTokenValidator builds a validator for tokens signed with key and issued by issuer.
func NewTokenValidator(key, issuer string) *TokenValidator {
	return &TokenValidator{key: []byte(key), issuer: issuer}
}

// Validate parses the token and resolves the acting admin.
func (v *TokenValidator) Validate(token string) (requestcontext.Actor, error) {
	var claims AdminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return requestcontext.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	role, ok := adminRole(claims.Roles)
	if !ok {
		return requestcontext.Actor{}, ErrNoAdminRole
	}
	return requestcontext.Actor{
		Subject:        claims.Subject,
		Role:           role,
		OrganizationID: id.OrganizationID(claims.OrganizationID),
	}, nil
}

// Issue signs a token for actor. Used by the admin CLI and tests.
func (v *TokenValidator) Issue(actor requestcontext.Actor, now time.Time, ttl time.Duration) (string, error) {
	claims := AdminClaims{
		Roles:          []string{string(actor.Role)},
		OrganizationID: int64(actor.OrganizationID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.Subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}

// adminRole picks the most privileged admin role from the roles claim.
func adminRole(roles []string) (requestcontext.Role, bool) {
	best := -1
	ranked := []requestcontext.Role{
		requestcontext.RoleOrganizationAdmin,
		requestcontext.RoleSalesAdmin,
		requestcontext.RoleSuperAdmin,
	}
	for _, r := range pstrings.NormalizeEnums(roles) {
		for i, candidate := range ranked {
			if requestcontext.Role(r) == candidate && i > best {
				best = i
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return ranked[best], true
}

// RequireAdmin authenticates the bearer token and stores the actor in the
// request context. Organization scoping happens in the service.
func RequireAdmin(validator *TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			actor, err := validator.Validate(token)
			if errors.Is(err, ErrNoAdminRole) {
				logger.WarnContext(ctx, "forbidden - no admin role",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}
