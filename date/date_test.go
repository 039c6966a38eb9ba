package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		in        string
		want      Date
		expectErr bool
	}{
		{"Canonical format", "2025-03-07", New(2025, time.March, 7), false},
		{"Permissive format", "2025-3-7", New(2025, time.March, 7), false},
		{"Normalized overflow", "2025-1-32", Date{}, true},
		{"Garbage", "yesterday", Date{}, true},
		{"Empty", "", Date{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			hasErr := err != nil
			if hasErr != tc.expectErr {
				t.Fatalf("Parse(%q) error = %v, want error: %v", tc.in, err, tc.expectErr)
			}
			if !hasErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2025, time.January, 31)
	if got := d.Add(1); got != New(2025, time.February, 1) {
		t.Errorf("Add(1) = %v, want 2025-02-01", got)
	}
	if got := d.Add(-31); got != New(2024, time.December, 31) {
		t.Errorf("Add(-31) = %v, want 2024-12-31", got)
	}
}

func TestFromUnixMilli(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	// 2025-06-30 23:30 UTC is already July 1st in Berlin (CEST, UTC+2).
	ms := time.Date(2025, time.June, 30, 23, 30, 0, 0, time.UTC).UnixMilli()
	if got := FromUnixMilli(ms, berlin); got != New(2025, time.July, 1) {
		t.Errorf("FromUnixMilli in Berlin = %v, want 2025-07-01", got)
	}
	if got := FromUnixMilli(ms, time.UTC); got != New(2025, time.June, 30) {
		t.Errorf("FromUnixMilli in UTC = %v, want 2025-06-30", got)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-01-03"), 1.03)
	h.Append(MustParse("2025-01-01"), 1.01)
	h.Append(MustParse("2025-01-10"), 1.10)

	testCases := []struct {
		name   string
		day    string
		want   float64
		wantOK bool
	}{
		{"Before first point", "2024-12-31", 0, false},
		{"Exact match", "2025-01-03", 1.03, true},
		{"Carry forward inside gap", "2025-01-07", 1.03, true},
		{"After last point", "2025-02-01", 1.10, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(MustParse(tc.day))
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("ValueAsOf(%s) = (%v, %v), want (%v, %v)", tc.day, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestHistoryValueNear(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-05-02"), 0.92) // Friday close

	// The 5th is a Monday holiday: exact rate is missing, the Friday close
	// three days earlier is inside the lookback.
	on, v, ok := h.ValueNear(MustParse("2025-05-05"), 5)
	if !ok || v != 0.92 || on != MustParse("2025-05-02") {
		t.Fatalf("ValueNear = (%v, %v, %v), want (2025-05-02, 0.92, true)", on, v, ok)
	}

	if _, _, ok := h.ValueNear(MustParse("2025-05-20"), 5); ok {
		t.Error("ValueNear found a rate outside the lookback window")
	}
}

func TestHistoryAppendOverwrites(t *testing.T) {
	var h History[float64]
	day := MustParse("2025-01-01")
	h.Append(day, 1)
	h.Append(day, 2)
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
	if v, _ := h.Get(day); v != 2 {
		t.Errorf("Get = %v, want the last appended value 2", v)
	}
}
