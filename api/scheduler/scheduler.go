package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/email"
	"github.com/BaselBoulos/la-maison-privee/models"
	templates "github.com/BaselBoulos/la-maison-privee/templates/html"
)

// Scheduler handles periodic background jobs for every club
type Scheduler struct {
	cron    *cron.Cron
	Events  databases.EventDatabase
	Members databases.MemberDatabase
	Codes   databases.InvitationCodeDatabase
	Clubs   databases.ClubDatabase
	Sender  email.Sender
	now     func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	events databases.EventDatabase,
	members databases.MemberDatabase,
	codes databases.InvitationCodeDatabase,
	clubs databases.ClubDatabase,
	sender email.Sender,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		Events:  events,
		Members: members,
		Codes:   codes,
		Clubs:   clubs,
		Sender:  sender,
		now:     time.Now,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Remind members of tomorrow's events daily at 9 AM UTC
	_, err := s.cron.AddFunc("0 9 * * *", s.runEventReminders)
	if err != nil {
		zap.S().Errorw("failed to register event reminder job", "error", err)
	}

	// Purge expired unused invitation codes daily at 3 AM UTC
	_, err = s.cron.AddFunc("0 3 * * *", s.runPurgeExpiredCodes)
	if err != nil {
		zap.S().Errorw("failed to register invitation code purge job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) runEventReminders() {
	ctx, cancel := api.WithJobTimeout(api.ReminderTimeout)
	defer cancel()

	sent, err := s.SendEventReminders(ctx, s.now())
	if err != nil {
		zap.S().Errorw("event reminder job failed", "error", err)
		return
	}
	zap.S().Infow("event reminder job complete", "sent", sent)
}

func (s *Scheduler) runPurgeExpiredCodes() {
	ctx, cancel := api.WithJobTimeout(api.PurgeTimeout)
	defer cancel()

	purged, err := s.PurgeExpiredCodes(ctx, s.now())
	if err != nil {
		zap.S().Errorw("invitation code purge job failed", "error", err)
		return
	}
	zap.S().Infow("invitation code purge job complete", "purged", purged)
}

// SendEventReminders emails every member who said yes to an event dated the
// day after now. It returns how many emails went out.
func (s *Scheduler) SendEventReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := models.DayOf(now.UTC().AddDate(0, 0, 1))
	events, err := s.Events.Find(ctx, bson.M{"date": tomorrow})
	if err != nil {
		return 0, err
	}

	sent := 0
	clubs := map[int]models.Club{}
	for _, e := range events {
		if len(e.RSVPs.Yes) == 0 {
			continue
		}
		club, ok := clubs[e.ClubID]
		if !ok {
			club = s.club(ctx, e.ClubID)
			clubs[e.ClubID] = club
		}
		members, err := s.Members.Find(ctx, bson.M{"_id": bson.M{"$in": e.RSVPs.Yes}, "clubId": e.ClubID})
		if err != nil {
			zap.S().Errorw("failed to load attendees", "eventId", e.ID.Hex(), "error", err)
			continue
		}
		subject := "Reminder: " + e.Title
		for _, m := range members {
			body := templates.RenderEventReminder(m.Name, e.Title, e.Date.String(), e.Time, e.Location)
			err := s.Sender.Send(ctx, email.Message{
				ToEmail:   m.Email,
				ToName:    m.Name,
				Subject:   subject,
				PlainText: body,
				HTML:      templates.RenderClubEmail(subject, body, club.Name, club.Theme.Accent),
			})
			if err != nil {
				zap.S().Warnw("failed to send event reminder", "eventId", e.ID.Hex(), "memberId", m.ID.Hex(), "error", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}

// PurgeExpiredCodes deletes unused invitation codes whose expiry has passed
func (s *Scheduler) PurgeExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	return s.Codes.DeleteMany(ctx, bson.M{
		"status":    models.CodeStatusUnused,
		"expiresAt": bson.M{"$lt": now},
	})
}

func (s *Scheduler) club(ctx context.Context, id int) models.Club {
	club, err := s.Clubs.FindOne(ctx, bson.M{"id": id})
	if err != nil {
		return models.Club{ID: id, Name: "La Maison Privée"}
	}
	return *club
}
