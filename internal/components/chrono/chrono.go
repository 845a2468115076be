package chrono

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in the location of the API.
	Now() time.Time
	Location() *time.Location
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	location *time.Location
}

// NewStandardTime loads the IANA timezone `name`, an empty name means UTC.
func NewStandardTime(name string) (StandardTime, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return StandardTime{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return StandardTime{location: location}, nil
}

func (s StandardTime) Now() time.Time {
	return time.Now().In(s.Location())
}

func (s StandardTime) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

// FixedTime always returns the same instant, it is meant for tests.
type FixedTime struct {
	Time time.Time
}

func (f FixedTime) Now() time.Time {
	return f.Time
}

func (f FixedTime) Location() *time.Location {
	return f.Time.Location()
}
