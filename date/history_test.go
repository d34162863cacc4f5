package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); h.Len() != 2 || got != "overwritten" {
		t.Errorf("Append(d1) on existing day: Len() = %v, Get(d1) = %q", h.Len(), got)
	}
}

func TestInsert(t *testing.T) {
	h := new(History[float64])
	days := []Date{New(2023, 1, 5), New(2023, 1, 3), New(2023, 1, 4)}
	for i, d := range days {
		if !h.Insert(d, float64(i)) {
			t.Fatalf("Insert(%v) = false, want true", d)
		}
	}
	if h.Insert(days[0], 42) {
		t.Errorf("Insert(%v) twice = true, want false", days[0])
	}
	var prev Date
	for d := range h.Values() {
		if !prev.IsZero() && !prev.Before(d) {
			t.Errorf("Values() not chronological: %v after %v", d, prev)
		}
		prev = d
	}
	if on, v := h.Latest(); on != days[0] || v != 0 {
		t.Errorf("Latest() = %v, %v want %v, 0", on, v, days[0])
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2023, 1, 3), 1).Append(New(2023, 1, 10), 2)

	testCases := []struct {
		on     Date
		want   float64
		wantOk bool
	}{
		{New(2023, 1, 1), 0, false},
		{New(2023, 1, 3), 1, true},
		{New(2023, 1, 9), 1, true},
		{New(2023, 2, 1), 2, true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(tc.on)
		if got != tc.want || ok != tc.wantOk {
			t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
		}
	}
}
