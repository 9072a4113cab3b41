package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/transfer"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller. AccountId is the token subject; an
// account holder's wallet shares that id.
type Identity struct {
	AccountId     string
	Role          string
	PhoneVerified bool
	KYCStatus     models.KYCStatus
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Claims are the JWT claims issued to API callers.
type Claims struct {
	Role          string `json:"role"`
	PhoneVerified bool   `json:"phone_verified,omitempty"`
	KYCStatus     string `json:"kyc_status,omitempty"`
	jwt.RegisteredClaims
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity set by Authenticator.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Authenticator validates the HS256 bearer token of every request whose path
// does not start with one of the public prefixes.
func Authenticator(secret []byte, public ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for _, p := range public {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				respond.JSON(w, http.StatusUnauthorized, api.Error{Code: "unauthorized", Message: "missing bearer token"})
				return
			}
			id, err := ParseToken(secret, raw)
			if err != nil {
				respond.JSON(w, http.StatusUnauthorized, api.Error{Code: "unauthorized", Message: err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		}
		return http.HandlerFunc(fn)
	}
}

// ParseToken validates a signed token and returns its identity.
func ParseToken(secret []byte, raw string) (Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return Identity{}, errors.New("missing bearer token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return Identity{}, errors.New("token has no subject")
	}

	role := claims.Role
	if role == "" {
		role = RoleUser
	}
	return Identity{
		AccountId:     claims.Subject,
		Role:          role,
		PhoneVerified: claims.PhoneVerified,
		KYCStatus:     models.KYCStatus(claims.KYCStatus),
	}, nil
}

// CallerIdentity returns the identity of r, writing 401 when there is none.
func CallerIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, api.Error{Code: "unauthorized", Message: "unauthorized"})
	}
	return id, ok
}

// Actor is the identity as seen by the transfer service.
func (i Identity) Actor() transfer.Actor {
	return transfer.Actor{AccountId: i.AccountId, Admin: i.IsAdmin()}
}

// RequireAdmin rejects non-admin callers on paths under prefix.
func RequireAdmin(prefix string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				id, ok := IdentityFromContext(r.Context())
				if !ok || !id.IsAdmin() {
					respond.JSON(w, http.StatusForbidden, api.Error{Code: "forbidden", Message: "admin role required"})
					return
				}
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// IssueToken signs a token for id that expires after ttl.
func IssueToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:          id.Role,
		PhoneVerified: id.PhoneVerified,
		KYCStatus:     string(id.KYCStatus),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
