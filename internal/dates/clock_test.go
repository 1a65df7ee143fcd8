package dates

import (
	"encoding/json"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "14:30", want: TimeOfDay{14, 30}},
		{in: "09:00", want: TimeOfDay{9, 0}},
		{in: "9:15", want: TimeOfDay{9, 15}},
		{in: "00:00", want: TimeOfDay{0, 0}},
		{in: "23:59", want: TimeOfDay{23, 59}},
		{in: " 10:45 ", want: TimeOfDay{10, 45}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseClockFlexible(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "14:30", want: TimeOfDay{14, 30}},
		{in: "9:15 AM", want: TimeOfDay{9, 15}},
		{in: "9:15AM", want: TimeOfDay{9, 15}},
		{in: "6:00 pm", want: TimeOfDay{18, 0}},
		{in: "12:00 AM", want: TimeOfDay{0, 0}},
		{in: "12:30 PM", want: TimeOfDay{12, 30}},
		{in: "13:00 PM", wantErr: true},
		{in: "0:30 AM", wantErr: true},
		{in: "sometime PM", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseClockFlexible(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClockFlexible(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClockFlexible(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClockFlexible(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDay_Clock12(t *testing.T) {
	cases := []struct {
		in   TimeOfDay
		want string
	}{
		{TimeOfDay{14, 30}, "2:30 PM"},
		{TimeOfDay{9, 5}, "9:05 AM"},
		{TimeOfDay{0, 0}, "12:00 AM"},
		{TimeOfDay{12, 0}, "12:00 PM"},
		{TimeOfDay{12, 45}, "12:45 PM"},
		{TimeOfDay{23, 59}, "11:59 PM"},
	}
	for _, tc := range cases {
		if got := tc.in.Clock12(); got != tc.want {
			t.Errorf("%v.Clock12() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"14:30", "2:30 PM"},
		{"09:00", "9:00 AM"},
		{"9:15 AM", "9:15 AM"},   // already human, untouched
		{"6:00 pm", "6:00 pm"},   // case preserved, untouched
		{"not-a-time", "not-a-time"},
		{"", ""},
		{"25:99", "25:99"}, // out of range, echoed verbatim
	}
	for _, tc := range cases {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDay_MinuteOfDay(t *testing.T) {
	if got := (TimeOfDay{14, 30}).MinuteOfDay(); got != 870 {
		t.Errorf("MinuteOfDay = %d, want 870", got)
	}
	if got := (TimeOfDay{0, 0}).MinuteOfDay(); got != 0 {
		t.Errorf("MinuteOfDay = %d, want 0", got)
	}
}

func TestTimeOfDay_JSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(TimeOfDay{9, 0})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"09:00"` {
		t.Fatalf("marshal = %s", b)
	}

	var back TimeOfDay
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != (TimeOfDay{9, 0}) {
		t.Errorf("round trip = %+v", back)
	}
}
