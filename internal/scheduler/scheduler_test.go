package scheduler

import (
	"testing"
	"time"
)

func TestNextMonthStart(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{
			name: "meio do mês",
			ref:  time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
			want: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "virada de ano",
			ref:  time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exatamente no dia 1",
			ref:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextMonthStart(tc.ref); !got.Equal(tc.want) {
				t.Errorf("nextMonthStart(%v) = %v, want %v", tc.ref, got, tc.want)
			}
		})
	}
}

func TestPreviousMonthOfFireTime(t *testing.T) {
	// O disparo de 1º de abril cobre março, não abril.
	fire := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	previous := fire.AddDate(0, -1, 0)
	if previous.Month() != time.March || previous.Year() != 2025 {
		t.Errorf("previous month = %v, want march 2025", previous)
	}
}
