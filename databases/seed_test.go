package databases_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/models"
)

const seedYAML = `
clubs:
  - id: 1
    name: La Maison Privée
    slug: la-maison-privee
    locale: en-GB
    currency: GBP
admins:
  - email: Super@Example.com
    password: secret
    name: Super
    role: super
interests:
  - {name: Wine Tasting, enabled: true}
`

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	data, err := databases.LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "la-maison-privee", data.Clubs[0].Slug)
	assert.Equal(t, "secret", data.Admins[0].Password)
	assert.True(t, data.Interests[0].Enabled)
}

func TestSeederKeepsExistingDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	data, err := databases.LoadSeed(path)
	require.NoError(t, err)

	clubs := &mocksdb.ClubDatabase{}
	admins := &mocksdb.AdminDatabase{}
	interests := &mocksdb.InterestDatabase{}

	clubs.On("FindOne", mock.Anything, mock.Anything).Return(&models.Club{ID: 1}, nil)
	admins.On("FindOne", mock.Anything, mock.Anything).Return(nil, apperrors.NotFound("admin not found"))
	admins.On("InsertOne", mock.Anything, mock.MatchedBy(func(a models.Admin) bool {
		return a.Email == "super@example.com" && bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret")) == nil
	})).Return(primitive.NewObjectID(), nil)
	interests.On("FindOne", mock.Anything, mock.Anything).Return(nil, apperrors.NotFound("interest not found"))
	interests.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	s := databases.Seeder{Clubs: clubs, Admins: admins, Interests: interests}
	require.NoError(t, s.Apply(context.Background(), data))

	clubs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	admins.AssertNumberOfCalls(t, "InsertOne", 1)
	interests.AssertNumberOfCalls(t, "InsertOne", 1)
}
