package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DayLayout is the wire format of calendar dates
const DayLayout = "2006-01-02"

// Day is a calendar date stored as midnight UTC. It is rendered as YYYY-MM-DD in
// JSON and as a BSON datetime in mongo.
type Day struct {
	time.Time
}

// NewDay returns the calendar date y-m-d
func NewDay(year int, month time.Month, day int) Day {
	return Day{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay accepts YYYY-MM-DD or an RFC3339 timestamp and keeps the calendar date
// the caller wrote.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return DayOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DayLayout)
}

// MarshalJSON renders the date as YYYY-MM-DD, null when unset
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON reads YYYY-MM-DD or RFC3339
func (d *Day) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a BSON datetime
func (d Day) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

// UnmarshalBSONValue reads a BSON datetime
func (d *Day) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null {
		*d = Day{}
		return nil
	}
	tm, ok := bson.RawValue{Type: t, Value: data}.TimeOK()
	if !ok {
		return fmt.Errorf("cannot decode %v into a Day", t)
	}
	*d = DayOf(tm.UTC())
	return nil
}
