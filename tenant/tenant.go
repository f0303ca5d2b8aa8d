// Package tenant decides which club a request is scoped to.
package tenant

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

// Role is the kind of administrator behind a request
type Role string

// Predefined Role values
const (
	RoleSuper Role = "super"
	RoleClub  Role = "club"
)

// IsValid checks if the Role value is one of the predefined constants
func (r Role) IsValid() bool {
	return r == RoleSuper || r == RoleClub
}

// HeaderClubID and QueryClubID carry the explicit club selector of a request
const (
	HeaderClubID = "X-Club-Id"
	QueryClubID  = "clubId"
)

// Principal is the authenticated administrator of a request
type Principal struct {
	AdminID        string
	Email          string
	Role           Role
	ClubID         int
	AllowedClubIDs []int
}

// Allowed returns the clubs a club admin may operate on. Super admins are not
// restricted and get nil.
func (p *Principal) Allowed() []int {
	if p == nil || p.Role != RoleClub {
		return nil
	}
	if len(p.AllowedClubIDs) > 0 {
		return p.AllowedClubIDs
	}
	if p.ClubID > 0 {
		return []int{p.ClubID}
	}
	return []int{}
}

// CanAccess reports whether the principal may operate on clubID
func (p *Principal) CanAccess(clubID int) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleSuper {
		return true
	}
	for _, id := range p.Allowed() {
		if id == clubID {
			return true
		}
	}
	return false
}

// Resolver picks the club an operation runs against
type Resolver struct {
	DefaultClubID int
}

// Resolve returns the club for principal p and the request hint (0 when the
// request carries none). A nil principal takes the unauthenticated path.
func (r Resolver) Resolve(p *Principal, hint int) int {
	if p != nil && p.Role == RoleClub {
		allowed := p.Allowed()
		if hint > 0 {
			for _, id := range allowed {
				if id == hint {
					return hint
				}
			}
		}
		if len(allowed) > 0 {
			return allowed[0]
		}
		if p.ClubID > 0 {
			return p.ClubID
		}
		return r.DefaultClubID
	}
	if hint > 0 {
		return hint
	}
	if p != nil && p.ClubID > 0 {
		return p.ClubID
	}
	return r.DefaultClubID
}

// CheckMutation rejects a write when a club admin explicitly asked for a club
// outside their grant.
func (r Resolver) CheckMutation(p *Principal, hint int) error {
	if p == nil || p.Role != RoleClub || hint <= 0 {
		return nil
	}
	if !p.CanAccess(hint) {
		return apperrors.Forbidden("club %d is not accessible for this account", hint)
	}
	return nil
}

// Hint reads the explicit club selector of a request, the X-Club-Id header
// first and the clubId query parameter second. Zero means no hint.
func Hint(r *http.Request) int {
	if id := parseClubID(r.Header.Get(HeaderClubID)); id > 0 {
		return id
	}
	return parseClubID(r.URL.Query().Get(QueryClubID))
}

func parseClubID(s string) int {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

type principalKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the auth middleware, or nil
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
