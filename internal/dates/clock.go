package dates

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time with minute precision. Bookings store it
// separately from the date because customers often request a day with no
// particular time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24-hour, leading zero optional).
func ParseClock(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("dates: parse clock %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("dates: parse clock %q: bad hour", s)
	}
	if len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("dates: parse clock %q: want two-digit minute", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("dates: parse clock %q: bad minute", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseClockFlexible accepts the strict 24-hour form plus the 12-hour
// "H:MM AM/PM" form that legacy bookings carry.
func ParseClockFlexible(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)

	period := ""
	if strings.HasSuffix(upper, "AM") {
		period = "AM"
	} else if strings.HasSuffix(upper, "PM") {
		period = "PM"
	}
	if period == "" {
		return ParseClock(trimmed)
	}

	t, err := ParseClock(strings.TrimSpace(trimmed[:len(trimmed)-2]))
	if err != nil {
		return TimeOfDay{}, err
	}
	if t.Hour < 1 || t.Hour > 12 {
		return TimeOfDay{}, fmt.Errorf("dates: parse clock %q: bad 12-hour value", s)
	}
	if t.Hour == 12 {
		t.Hour = 0
	}
	if period == "PM" {
		t.Hour += 12
	}
	return t, nil
}

// String formats as 24-hour "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock12 formats as 12-hour "H:MM AM/PM".
func (t TimeOfDay) Clock12() string {
	period := "AM"
	hour := t.Hour
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, period)
}

// MinuteOfDay returns minutes since midnight, the sort key for day views.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// MarshalJSON encodes as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM".
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FormatClock renders a raw time string for display. Strings that already
// carry an AM/PM marker pass through untouched, 24-hour HH:MM strings are
// converted to 12-hour form, and anything unparsable is returned verbatim so
// a malformed booking still renders.
func FormatClock(raw string) string {
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return raw
	}
	t, err := ParseClock(raw)
	if err != nil {
		return raw
	}
	return t.Clock12()
}
