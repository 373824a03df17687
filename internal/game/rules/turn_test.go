package rules

import "testing"

type seats []bool

func (s seats) Len() int { return len(s) }
func (s seats) Eliminated(i int) bool { return s[i] }
func (s seats) PlayerID(i int) string { return string(rune('A' + i)) }

func TestNextActiveSkipsEliminated(t *testing.T) {
	cases := []struct {
		name  string
		seats seats
		start int
		want  int
		ok    bool
	}{
		{"simple", seats{false, false, false}, 0, 1, true},
		{"wraps", seats{false, false, false}, 2, 0, true},
		{"skips one", seats{false, true, false}, 0, 2, true},
		{"skips to start of order", seats{false, false, true}, 1, 0, true},
		{"current eliminated", seats{true, false, false}, 0, 1, true},
		{"only start left", seats{false, true, true}, 0, 0, false},
		{"nobody left", seats{true, true, true}, 1, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextActive(tc.seats, tc.start)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected seat %d, got %d", tc.want, got)
			}
			if ok && tc.seats[got] {
				t.Fatalf("landed on eliminated seat %d", got)
			}
		})
	}
}

func TestNextActiveEmptySeating(t *testing.T) {
	if _, ok := NextActive(seats{}, 0); ok {
		t.Fatalf("expected no next seat for empty seating")
	}
}

func TestResolve(t *testing.T) {
	if out := Resolve(seats{false, false, true}); out.Over {
		t.Fatalf("expected match to continue with two active players, got %s", out)
	}

	out := Resolve(seats{true, false, true})
	if !out.Over || !out.HasWinner || out.WinnerID != "B" {
		t.Fatalf("expected B to win, got %+v", out)
	}

	out = Resolve(seats{true, true})
	if !out.Over || out.HasWinner {
		t.Fatalf("expected no winner, got %+v", out)
	}
	if out.String() != "no winner" {
		t.Fatalf("unexpected outcome string %q", out.String())
	}
}

func TestActiveCount(t *testing.T) {
	if got := ActiveCount(seats{false, true, false, false}); got != 3 {
		t.Fatalf("expected 3 active seats, got %d", got)
	}
}
