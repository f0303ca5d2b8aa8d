// Package tier derives a member's loyalty tier from the events they attended.
package tier

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BaselBoulos/la-maison-privee/models"
)

// Tier is a loyalty label
type Tier string

// Predefined Tier values, lowest first
const (
	Standard Tier = "Standard"
	Premium  Tier = "Premium"
	Platinum Tier = "Platinum"
	VIP      Tier = "VIP"
	Founding Tier = "Founding"
)

// Band is the attendance range of a tier. Max is -1 for the open top band.
type Band struct {
	Tier        Tier
	Min         int
	Max         int
	Description string
}

// Bands lists the tiers in ascending order of their minimum attendance
var Bands = []Band{
	{Standard, 0, 4, "0-4 events attended"},
	{Premium, 5, 9, "5-9 events attended"},
	{Platinum, 10, 14, "10-14 events attended"},
	{VIP, 15, 24, "15-24 events attended"},
	{Founding, 25, -1, "25+ events attended"},
}

// AttendanceCount counts the events dated today or earlier, in now's location,
// whose yes RSVPs include memberID.
func AttendanceCount(memberID primitive.ObjectID, events []models.Event, now time.Time) int {
	y, m, d := now.Date()
	today := models.NewDay(y, m, d)

	count := 0
	for _, e := range events {
		if e.Date.IsZero() || e.Date.After(today.Time) {
			continue
		}
		for _, id := range e.RSVPs.Yes {
			if id == memberID {
				count++
				break
			}
		}
	}
	return count
}

// FromCount returns the highest tier whose minimum is at most count
func FromCount(count int) Tier {
	return bandFor(count).Tier
}

// Calculate returns the tier and attendance count of memberID
func Calculate(memberID primitive.ObjectID, events []models.Event, now time.Time) (Tier, int) {
	count := AttendanceCount(memberID, events, now)
	return FromCount(count), count
}

// Info describes a member's position on the tier ladder
type Info struct {
	Tier            Tier   `json:"tier"`
	Description     string `json:"description"`
	AttendanceCount int    `json:"attendanceCount"`
	NextTier        Tier   `json:"nextTier,omitempty"`
	EventsNeeded    int    `json:"eventsNeeded,omitempty"`
}

// InfoFor returns the tier, its description and the distance to the next tier
func InfoFor(count int) Info {
	idx := bandIndex(count)
	b := Bands[idx]
	info := Info{Tier: b.Tier, Description: b.Description, AttendanceCount: count}
	if idx+1 < len(Bands) {
		next := Bands[idx+1]
		info.NextTier = next.Tier
		info.EventsNeeded = next.Min - count
	}
	return info
}

func bandFor(count int) Band {
	return Bands[bandIndex(count)]
}

func bandIndex(count int) int {
	idx := 0
	for i, b := range Bands {
		if count >= b.Min {
			idx = i
		}
	}
	return idx
}
