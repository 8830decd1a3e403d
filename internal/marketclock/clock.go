package marketclock

import (
	"fmt"
	"time"
)

// timeLayout is the expected format for open/close times.
const timeLayout = "15:04:05"

// Clock reports whether the market's trading window is open.
type Clock struct {
	loc    *time.Location
	open   int // seconds since midnight
	close  int
	bypass bool
}

// New creates a Clock for the given timezone name and open/close times
// ("HH:MM:SS", local to that timezone). If bypass is true, IsOpen always
// returns true.
func New(timezone, openTime, closeTime string, bypass bool) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	openSec, err := parseTimeOfDay(openTime)
	if err != nil {
		return nil, fmt.Errorf("parse open time: %w", err)
	}
	closeSec, err := parseTimeOfDay(closeTime)
	if err != nil {
		return nil, fmt.Errorf("parse close time: %w", err)
	}
	if closeSec < openSec {
		return nil, fmt.Errorf("close time %s is before open time %s", closeTime, openTime)
	}

	return &Clock{
		loc:    loc,
		open:   openSec,
		close:  closeSec,
		bypass: bypass,
	}, nil
}

// IsOpen reports whether now falls within the closed interval
// [open, close] in the clock's timezone. The instant may be in any
// timezone; it is converted before comparison.
func (c *Clock) IsOpen(now time.Time) bool {
	if c.bypass {
		return true
	}

	local := now.In(c.loc)
	sec := local.Hour()*3600 + local.Minute()*60 + local.Second()

	return sec >= c.open && sec <= c.close
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}
