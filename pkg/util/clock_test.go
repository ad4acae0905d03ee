package util

import (
	"testing"
	"time"
)

func TestNextTopOfHour(t *testing.T) {
	jkt := time.FixedZone("WIB", 7*3600)
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid hour", time.Date(2024, 10, 10, 10, 17, 3, 0, jkt), time.Date(2024, 10, 10, 11, 0, 0, 0, jkt)},
		{"exactly on hour", time.Date(2024, 10, 10, 10, 0, 0, 0, jkt), time.Date(2024, 10, 10, 11, 0, 0, 0, jkt)},
		{"day rollover", time.Date(2024, 10, 10, 23, 59, 59, 0, jkt), time.Date(2024, 10, 11, 0, 0, 0, 0, jkt)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextTopOfHour(tc.in, jkt)
			if !got.Equal(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestNextTopOfHourHalfHourZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 10, 10, 10, 45, 0, 0, ist)
	got := NextTopOfHour(in, ist)
	if got.In(ist).Minute() != 0 || got.In(ist).Hour() != 11 {
		t.Fatalf("unexpected %v", got.In(ist))
	}
}

func TestFormatClock(t *testing.T) {
	jkt := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, 10, 10, 2, 5, 0, 0, time.UTC)
	if got := FormatClock(in, jkt); got != "09:05" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestOlderThan(t *testing.T) {
	now := time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)
	if !OlderThan(now.Add(-3601*time.Second), now, time.Hour) {
		t.Fatalf("expected stale at 3601s")
	}
	if OlderThan(now.Add(-time.Hour), now, time.Hour) {
		t.Fatalf("exactly one hour is not stale")
	}
	if OlderThan(now.Add(-100*time.Second), now, time.Hour) {
		t.Fatalf("expected fresh at 100s")
	}
}

func TestIsTopOfHour(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, 10, 10, 4, 30, 40, 0, time.UTC)
	if !IsTopOfHour(at, ist) {
		t.Fatalf("04:30:40Z is 10:00:40 IST")
	}
	if IsTopOfHour(at, time.UTC) {
		t.Fatalf("04:30 UTC is not minute zero")
	}
}
