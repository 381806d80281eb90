// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestDiff_RoundTripAndBounds(t *testing.T) {
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

	durations := []time.Duration{
		time.Second,
		59 * time.Second,
		time.Minute,
		time.Hour + 30*time.Second,
		23*time.Hour + 59*time.Minute + 59*time.Second,
		24 * time.Hour,
		13*24*time.Hour + 12*time.Hour,
		400*24*time.Hour + 7*time.Hour + 3*time.Minute + 1*time.Second,
		90*time.Second + 750*time.Millisecond,
	}

	for _, d := range durations {
		r, ok := Diff(now, now.Add(d))
		if !ok {
			t.Fatalf("Diff(%s) reported none", d)
		}
		if r.Hours < 0 || r.Hours >= 24 {
			t.Errorf("Diff(%s): hours out of range: %d", d, r.Hours)
		}
		if r.Minutes < 0 || r.Minutes >= 60 {
			t.Errorf("Diff(%s): minutes out of range: %d", d, r.Minutes)
		}
		if r.Seconds < 0 || r.Seconds >= 60 {
			t.Errorf("Diff(%s): seconds out of range: %d", d, r.Seconds)
		}
		if want := int64(d / time.Second); r.TotalSeconds() != want {
			t.Errorf("Diff(%s): total %d, want %d", d, r.TotalSeconds(), want)
		}
	}
}

func TestDiff_None(t *testing.T) {
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

	if _, ok := Diff(now, now); ok {
		t.Error("expected none when now equals target")
	}
	if _, ok := Diff(now, now.Add(-time.Minute)); ok {
		t.Error("expected none when target is in the past")
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		total int64
		want  Remaining
	}{
		{0, Remaining{}},
		{61, Remaining{Minutes: 1, Seconds: 1}},
		{3600, Remaining{Hours: 1}},
		{90061, Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
	}

	for _, tt := range tests {
		if got := FromSeconds(tt.total); got != tt.want {
			t.Errorf("FromSeconds(%d) = %+v, want %+v", tt.total, got, tt.want)
		}
	}
}

func TestTimeSource_Until(t *testing.T) {
	start := time.Date(2025, 11, 13, 23, 59, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	source := NewTimeSource(clock)
	target := start.Add(time.Minute)

	r, ok := source.Until(target)
	if !ok || r != (Remaining{Minutes: 1}) {
		t.Fatalf("Until = %+v, %v", r, ok)
	}

	clock.Advance(time.Minute)
	if _, ok := source.Until(target); ok {
		t.Error("expected none after advancing to target")
	}
}

func TestParseTarget(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"local datetime", "2025-11-14T00:00:00", time.Date(2025, 11, 14, 0, 0, 0, 0, loc), false},
		{"rfc3339", "2025-11-14T03:00:00Z", time.Date(2025, 11, 14, 3, 0, 0, 0, time.UTC), false},
		{"date only", "2025-11-14", time.Date(2025, 11, 14, 0, 0, 0, 0, loc), false},
		{"space separated", " 2025-11-14 08:30:00 ", time.Date(2025, 11, 14, 8, 30, 0, 0, loc), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "next friday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.value, loc)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTarget) {
					t.Fatalf("expected ErrInvalidTarget, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
