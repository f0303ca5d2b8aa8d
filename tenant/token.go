package tenant

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

// Claims is the payload of an access token
type Claims struct {
	AdminID        string `json:"adminId"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	ClubID         int    `json:"clubId,omitempty"`
	AllowedClubIDs []int  `json:"allowedClubIds,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 access tokens
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

// NewTokens returns a token service using secret and ttl
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Issue signs a token for p
func (t *Tokens) Issue(p Principal) (string, error) {
	now := t.now()
	claims := Claims{
		AdminID:        p.AdminID,
		Email:          p.Email,
		Role:           p.Role,
		ClubID:         p.ClubID,
		AllowedClubIDs: p.AllowedClubIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse verifies raw and returns the principal it carries
func (t *Tokens) Parse(raw string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindUnauthenticated, err, "token expired")
		}
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, err, "invalid token")
	}
	if !token.Valid || !claims.Role.IsValid() {
		return nil, apperrors.Unauthenticated("invalid token")
	}
	return &Principal{
		AdminID:        claims.AdminID,
		Email:          claims.Email,
		Role:           claims.Role,
		ClubID:         claims.ClubID,
		AllowedClubIDs: claims.AllowedClubIDs,
	}, nil
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
// Browsers can't set headers on websocket handshakes, so upgrade requests may
// pass it as ?token= instead.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			tok := r.URL.Query().Get("token")
			return tok, tok != ""
		}
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// FromRequest returns the principal of r's bearer token. A missing, expired or
// malformed token yields nil.
func (t *Tokens) FromRequest(r *http.Request) *Principal {
	raw, ok := BearerToken(r)
	if !ok {
		return nil
	}
	p, err := t.Parse(raw)
	if err != nil {
		return nil
	}
	return p
}
