package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestDateIn(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 02:30 UTC on the 29th is still the 28th in New York.
	instant := time.Date(2025, 9, 29, 2, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{name: "utc", loc: time.UTC, want: "2025-09-29"},
		{name: "new york", loc: ny, want: "2025-09-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateIn(instant, tt.loc); got != tt.want {
				t.Errorf("DateIn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 9, 29, 17, 45, 12, 99, time.UTC)
	want := time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(in, time.UTC); !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestParseDateInLocation(t *testing.T) {
	got, err := ParseDateInLocation("2025-09-28", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.September || got.Day() != 28 || got.Hour() != 0 {
		t.Errorf("ParseDateInLocation() = %v", got)
	}
	if _, err := ParseDateInLocation("28/09/2025", time.UTC); err == nil {
		t.Error("ParseDateInLocation() accepted a malformed date")
	}
}

func TestClockTime(t *testing.T) {
	in := time.Date(2025, 9, 29, 9, 5, 0, 0, time.UTC)
	if got := ClockTime(in, time.UTC); got != "09:05" {
		t.Errorf("ClockTime() = %q, want 09:05", got)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := FixedClock(at)(); !got.Equal(at) {
		t.Errorf("FixedClock() = %v, want %v", got, at)
	}
}
