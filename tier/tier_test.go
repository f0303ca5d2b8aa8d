package tier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"pgregory.net/rapid"

	"github.com/BaselBoulos/la-maison-privee/models"
)

var now = time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

func eventOn(day models.Day, yes ...primitive.ObjectID) models.Event {
	return models.Event{ID: primitive.NewObjectID(), Date: day, RSVPs: models.RSVPs{Yes: yes}}
}

func TestFromCountBoundaries(t *testing.T) {
	cases := map[int]Tier{
		0: Standard, 4: Standard,
		5: Premium, 9: Premium,
		10: Platinum, 14: Platinum,
		15: VIP, 24: VIP,
		25: Founding, 400: Founding,
	}
	for count, want := range cases {
		assert.Equal(t, want, FromCount(count), "count %d", count)
	}
}

func TestAttendanceCount(t *testing.T) {
	m := primitive.NewObjectID()
	other := primitive.NewObjectID()

	events := []models.Event{
		eventOn(models.NewDay(2024, time.June, 15), m),
		eventOn(models.NewDay(2024, time.June, 14), m, other),
		eventOn(models.NewDay(2024, time.June, 16), m),
		eventOn(models.NewDay(2024, time.January, 1), other),
		{ID: primitive.NewObjectID(), Date: models.NewDay(2024, time.March, 1)},
	}

	assert.Equal(t, 2, AttendanceCount(m, events, now))
	assert.Equal(t, 2, AttendanceCount(other, events, now))
	assert.Equal(t, 0, AttendanceCount(primitive.NewObjectID(), events, now))
}

func TestAttendanceCountUsesCallerCalendarDay(t *testing.T) {
	m := primitive.NewObjectID()
	events := []models.Event{eventOn(models.NewDay(2024, time.June, 16), m)}

	tokyo := time.FixedZone("JST", 9*60*60)
	lateEvening := time.Date(2024, time.June, 15, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, AttendanceCount(m, events, lateEvening))
	assert.Equal(t, 1, AttendanceCount(m, events, lateEvening.In(tokyo)))
}

func TestFivePastEventsIsPremium(t *testing.T) {
	m := primitive.NewObjectID()
	var events []models.Event
	for i := 1; i <= 5; i++ {
		events = append(events, eventOn(models.NewDay(2024, time.May, i), m))
	}

	tier, count := Calculate(m, events, now)
	assert.Equal(t, Premium, tier)
	assert.Equal(t, 5, count)
}

func TestInfoFor(t *testing.T) {
	info := InfoFor(3)
	assert.Equal(t, Standard, info.Tier)
	assert.Equal(t, Premium, info.NextTier)
	assert.Equal(t, 2, info.EventsNeeded)

	info = InfoFor(24)
	assert.Equal(t, VIP, info.Tier)
	assert.Equal(t, Founding, info.NextTier)
	assert.Equal(t, 1, info.EventsNeeded)

	info = InfoFor(30)
	assert.Equal(t, Founding, info.Tier)
	assert.Empty(t, info.NextTier)
	assert.Zero(t, info.EventsNeeded)
}

func TestAttendanceCountIsMonotone(t *testing.T) {
	m := primitive.NewObjectID()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "events")
		var events []models.Event
		prev := 0
		for i := 0; i < n; i++ {
			offset := rapid.IntRange(-400, 400).Draw(t, "offset")
			attends := rapid.Bool().Draw(t, "attends")
			e := eventOn(models.DayOf(now.AddDate(0, 0, offset)))
			if attends {
				e.RSVPs.Yes = []primitive.ObjectID{m}
			}
			events = append(events, e)

			count := AttendanceCount(m, events, now)
			if count < prev {
				t.Fatalf("count dropped from %d to %d", prev, count)
			}
			prev = count
		}
	})
}

func TestTierDependsOnlyOnCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 100).Draw(t, "count")
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		var ea, eb []models.Event
		for i := 0; i < count; i++ {
			ea = append(ea, eventOn(models.NewDay(2020, time.January, 1), a))
			eb = append(eb, eventOn(models.NewDay(2023, time.December, 31), b))
		}
		ta, _ := Calculate(a, ea, now)
		tb, _ := Calculate(b, eb, now)
		if ta != tb {
			t.Fatalf("equal counts gave %s and %s", ta, tb)
		}
	})
}
