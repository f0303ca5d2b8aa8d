package handlers

import (
	"net/http"

	"github.com/BaselBoulos/la-maison-privee/tenant"
)

// Scope resolves the club a request operates on
type Scope struct {
	Resolver tenant.Resolver
}

// clubID returns the resolved club for a read
func (s Scope) clubID(r *http.Request) int {
	return s.Resolver.Resolve(tenant.FromContext(r.Context()), tenant.Hint(r))
}

// mutationClubID returns the resolved club for a write, refusing club admins
// who explicitly target a club outside their grant
func (s Scope) mutationClubID(r *http.Request) (int, error) {
	p := tenant.FromContext(r.Context())
	hint := tenant.Hint(r)
	if err := s.Resolver.CheckMutation(p, hint); err != nil {
		return 0, err
	}
	return s.Resolver.Resolve(p, hint), nil
}
