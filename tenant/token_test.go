package tenant

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(Principal{AdminID: "a1", Email: "a@club.com", Role: RoleClub, ClubID: 2, AllowedClubIDs: []int{2, 3}})
	require.NoError(t, err)

	p, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "a1", p.AdminID)
	assert.Equal(t, RoleClub, p.Role)
	assert.Equal(t, []int{2, 3}, p.AllowedClubIDs)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := tokens.Issue(Principal{AdminID: "a1", Role: RoleSuper})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(raw)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestParseRejectsForeignSignature(t *testing.T) {
	raw, err := NewTokens("other", time.Hour).Issue(Principal{AdminID: "a1", Role: RoleSuper})
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(raw)
	assert.Error(t, err)
}

func TestFromRequestDegradesToNil(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, tokens.FromRequest(req))

	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Nil(t, tokens.FromRequest(req))

	raw, _ := tokens.Issue(Principal{AdminID: "a1", Role: RoleSuper})
	req.Header.Set("Authorization", "Bearer "+raw)
	assert.Equal(t, "a1", tokens.FromRequest(req).AdminID)
}
