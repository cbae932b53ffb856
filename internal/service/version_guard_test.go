package service

import "testing"

func TestCheckVersionVerdicts(t *testing.T) {
	ptr := func(v uint64) *uint64 { return &v }

	cases := []struct {
		name     string
		current  uint64
		provided *uint64
		want     versionVerdict
	}{
		{name: "absent_best_effort", current: 7, provided: nil, want: versionAccept},
		{name: "equal_current", current: 7, provided: ptr(7), want: versionAccept},
		{name: "current_plus_one", current: 7, provided: ptr(8), want: versionAccept},
		{name: "one_behind", current: 7, provided: ptr(6), want: versionStale},
		{name: "far_behind", current: 7, provided: ptr(0), want: versionStale},
		{name: "two_ahead_rejected", current: 7, provided: ptr(9), want: versionSuspicious},
		{name: "far_ahead_rejected", current: 7, provided: ptr(100), want: versionSuspicious},
		{name: "zero_accepts_zero", current: 0, provided: ptr(0), want: versionAccept},
		{name: "zero_accepts_one", current: 0, provided: ptr(1), want: versionAccept},
		{name: "zero_rejects_two", current: 0, provided: ptr(2), want: versionSuspicious},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := checkVersion(tc.current, tc.provided)
			if got != tc.want {
				t.Fatalf("checkVersion want %d got %d", tc.want, got)
			}
		})
	}
}
