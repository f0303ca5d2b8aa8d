package databases

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/models"
)

// SeedData is the demo data loaded at startup
type SeedData struct {
	Clubs     []models.Club     `yaml:"clubs"`
	Admins    []SeedAdmin       `yaml:"admins"`
	Interests []models.Interest `yaml:"interests"`
}

// SeedAdmin is an administrator account with a plain text password
type SeedAdmin struct {
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	Role           string `yaml:"role"`
	ClubID         int    `yaml:"clubId"`
	AllowedClubIDs []int  `yaml:"allowedClubIds"`
}

// LoadSeed reads seed data from a YAML file
func LoadSeed(path string) (*SeedData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	data := &SeedData{}
	if err := yaml.Unmarshal(b, data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return data, nil
}

// Seeder merges seed data into the store. Documents that already exist win.
type Seeder struct {
	Clubs     ClubDatabase
	Admins    AdminDatabase
	Interests InterestDatabase
}

// Apply inserts every seed club, admin and global interest that is missing
func (s Seeder) Apply(ctx context.Context, data *SeedData) error {
	now := time.Now().UTC()
	inserted := 0

	for _, c := range data.Clubs {
		absent, err := missing(s.Clubs.FindOne(ctx, bson.M{"id": c.ID}))
		if err != nil {
			return err
		}
		if !absent {
			continue
		}
		c.CreatedAt, c.UpdatedAt = now, now
		if err := s.Clubs.InsertOne(ctx, c); err != nil {
			return err
		}
		inserted++
	}

	for _, a := range data.Admins {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		absent, err := missing(s.Admins.FindOne(ctx, bson.M{"email": email}))
		if err != nil {
			return err
		}
		if !absent {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.Admin{
			Email:          email,
			PasswordHash:   string(hash),
			Name:           a.Name,
			Role:           a.Role,
			ClubID:         a.ClubID,
			AllowedClubIDs: a.AllowedClubIDs,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := s.Admins.InsertOne(ctx, admin); err != nil {
			return err
		}
		inserted++
	}

	for _, i := range data.Interests {
		filter := bson.M{"name": i.Name, "clubId": bson.M{"$exists": false}}
		if i.ClubID != nil {
			filter["clubId"] = *i.ClubID
		}
		absent, err := missing(s.Interests.FindOne(ctx, filter))
		if err != nil {
			return err
		}
		if !absent {
			continue
		}
		i.CreatedAt, i.UpdatedAt = now, now
		if _, err := s.Interests.InsertOne(ctx, i); err != nil {
			return err
		}
		inserted++
	}

	zap.S().Infow("seed data applied", "inserted", inserted)
	return nil
}

// missing turns a FindOne result into "is it absent", keeping real failures
func missing(_ interface{}, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		return true, nil
	}
	return false, err
}
