// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Remaining is the time left until the target, split into calendar-free
// buckets: Hours < 24, Minutes < 60, Seconds < 60.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// FromSeconds splits a non-negative number of seconds.
func FromSeconds(total int64) Remaining {
	return Remaining{
		Days:    int(total / secondsPerDay),
		Hours:   int((total % secondsPerDay) / secondsPerHour),
		Minutes: int((total % secondsPerHour) / secondsPerMinute),
		Seconds: int(total % secondsPerMinute),
	}
}

// TotalSeconds reassembles r.
func (r Remaining) TotalSeconds() int64 {
	return int64(r.Days)*secondsPerDay +
		int64(r.Hours)*secondsPerHour +
		int64(r.Minutes)*secondsPerMinute +
		int64(r.Seconds)
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dd%02dh%02dm%02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// Diff returns the time left from now to target. It reports false once
// now has reached target.
func Diff(now, target time.Time) (Remaining, bool) {
	d := target.Sub(now)
	if d <= 0 {
		return Remaining{}, false
	}
	return FromSeconds(int64(d / time.Second)), true
}

// TimeSource reads the current time from a clock.
type TimeSource struct {
	clock clockwork.Clock
}

// NewTimeSource creates a time source over clock; nil means the real clock.
func NewTimeSource(clock clockwork.Clock) *TimeSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TimeSource{clock: clock}
}

// Now returns the current time.
func (s *TimeSource) Now() time.Time {
	return s.clock.Now()
}

// Until returns the time left until target.
func (s *TimeSource) Until(target time.Time) (Remaining, bool) {
	return Diff(s.clock.Now(), target)
}
