// Package authctx extracts the caller's identity from trusted proxy
// headers. It deliberately does not verify a signature — the
// upstream gateway is assumed to have already done so and to strip
// any client-supplied copy of these headers before forwarding.
// Adapted from original_source's user_context.rs; the teacher's
// middleware.auth package signs and verifies tokens itself, which
// would misrepresent this trust boundary, so golang-jwt has no home
// here (see DESIGN.md).
package authctx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/wallym/auctionhouse/internal/domain"
)

type contextKey string

const userContextKey contextKey = "auctionhouse_user"

const (
	headerJWTPayload        = "X-JWT-PAYLOAD"
	headerMSClientPrincipal = "X-MS-CLIENT-PRINCIPAL"
)

// jwtPayload mirrors the fields the gateway places in the decoded
// JWT payload, per original_source's JwtPayload.
type jwtPayload struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	UTyp string `json:"u_typ"`
}

// clientPrincipal mirrors Azure's Entra ID claims principal blob.
type clientPrincipal struct {
	NameClaimType string                 `json:"name_typ"`
	Claims        []clientPrincipalClaim `json:"claims"`
}

type clientPrincipalClaim struct {
	Type  string `json:"typ"`
	Value string `json:"val"`
}

// FromRequest extracts the authenticated user from r's headers. It
// tries the JWT payload header first, then the Azure claims
// principal header, returning ok=false if neither is present or
// decodable.
func FromRequest(r *http.Request) (domain.UserId, bool) {
	if header := r.Header.Get(headerJWTPayload); header != "" {
		if payload, err := decodeJWTPayload(header); err == nil && payload.Name != "" {
			return domain.UserId(payload.Name), true
		}
	}
	if header := r.Header.Get(headerMSClientPrincipal); header != "" {
		if principal, err := decodeClientPrincipal(header); err == nil {
			if name, ok := nameClaimValue(principal); ok {
				return domain.UserId(name), true
			}
		}
	}
	return "", false
}

func decodeJWTPayload(header string) (jwtPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return jwtPayload{}, err
	}
	var payload jwtPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return jwtPayload{}, err
	}
	return payload, nil
}

func decodeClientPrincipal(header string) (clientPrincipal, error) {
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return clientPrincipal{}, err
	}
	var principal clientPrincipal
	if err := json.Unmarshal(raw, &principal); err != nil {
		return clientPrincipal{}, err
	}
	return principal, nil
}

func nameClaimValue(p clientPrincipal) (string, bool) {
	for _, c := range p.Claims {
		if c.Type == p.NameClaimType {
			return c.Value, c.Value != ""
		}
	}
	return "", false
}

// Require is HTTP middleware that rejects requests carrying neither
// trusted identity header with 401, and otherwise stores the
// resolved user id on the request context.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := FromRequest(r)
		if !ok {
			http.Error(w, "missing or invalid identity headers", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext extracts the user id that Require stored on ctx.
func UserFromContext(ctx context.Context) (domain.UserId, bool) {
	u, ok := ctx.Value(userContextKey).(domain.UserId)
	return u, ok
}
