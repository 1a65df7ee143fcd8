package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year != 2025 || d.Month != time.March || d.Day != 10 {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("String() = %q", d.String())
	}

	if _, err := ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for non-ISO input")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDate_AddDaysCrossesMonthBoundary(t *testing.T) {
	d := NewDate(2025, time.January, 30)
	got := d.AddDays(3)
	want := NewDate(2025, time.February, 2)
	if !got.Equal(want) {
		t.Errorf("AddDays(3) = %s, want %s", got, want)
	}

	back := got.AddDays(-3)
	if !back.Equal(d) {
		t.Errorf("AddDays(-3) = %s, want %s", back, d)
	}
}

func TestDate_AddMonthsClampsDayOfMonth(t *testing.T) {
	cases := []struct {
		name string
		from Date
		n    int
		want Date
	}{
		{"jan 31 forward clamps to feb 28", NewDate(2025, time.January, 31), 1, NewDate(2025, time.February, 28)},
		{"leap year clamps to feb 29", NewDate(2024, time.January, 31), 1, NewDate(2024, time.February, 29)},
		{"mar 31 back clamps to feb 28", NewDate(2025, time.March, 31), -1, NewDate(2025, time.February, 28)},
		{"mid-month unchanged", NewDate(2025, time.October, 15), 1, NewDate(2025, time.November, 15)},
		{"year rollover", NewDate(2025, time.December, 10), 1, NewDate(2026, time.January, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.AddMonths(tc.n); !got.Equal(tc.want) {
				t.Errorf("%s.AddMonths(%d) = %s, want %s", tc.from, tc.n, got, tc.want)
			}
		})
	}
}

func TestDate_DaysInMonth(t *testing.T) {
	if got := NewDate(2025, time.April, 1).DaysInMonth(); got != 30 {
		t.Errorf("April 2025 = %d days, want 30", got)
	}
	if got := NewDate(2024, time.February, 1).DaysInMonth(); got != 29 {
		t.Errorf("February 2024 = %d days, want 29", got)
	}
	if got := NewDate(2025, time.February, 1).DaysInMonth(); got != 28 {
		t.Errorf("February 2025 = %d days, want 28", got)
	}
}

func TestDate_BeforeAndEqual(t *testing.T) {
	a := NewDate(2025, time.March, 10)
	b := NewDate(2025, time.March, 11)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong within month")
	}
	if !a.Before(NewDate(2026, time.January, 1)) {
		t.Error("Before ordering wrong across years")
	}
	if !a.Equal(NewDate(2025, time.March, 10)) {
		t.Error("Equal failed for same day")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 10)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-10"` {
		t.Fatalf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %s, want %s", back, d)
	}

	var bad Date
	if err := json.Unmarshal([]byte(`"tomorrow"`), &bad); err == nil {
		t.Error("expected error for bad date string")
	}
}

func TestDateOf_UsesLocationDay(t *testing.T) {
	// 2025-03-10 23:30 in UTC is already 03-11 in UTC+5.
	utc := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	plus5 := utc.In(time.FixedZone("UTC+5", 5*3600))

	if got := DateOf(utc); got.Day != 10 {
		t.Errorf("DateOf(utc).Day = %d, want 10", got.Day)
	}
	if got := DateOf(plus5); got.Day != 11 {
		t.Errorf("DateOf(plus5).Day = %d, want 11", got.Day)
	}
}
