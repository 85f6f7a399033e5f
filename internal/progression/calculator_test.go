package progression

import (
	"math"
	"testing"
)

var testRates = Rates{
	BaseExpPerCoin:  0.2,
	BaseExpPerPage:  2.0,
	ReductionFactor: 0.5,
	MinExpRate:      0.01,
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyFuel_PerCoin(t *testing.T) {
	cases := []struct {
		name      string
		level     int
		exp       float64
		fuel      float64
		wantLevel int
		wantExp   float64
		wantUp    bool
	}{
		{"no fuel", 1, 0, 0, 1, 0, false},
		{"partial level", 1, 0, 100, 1, 20, false},
		// level 1 needs 100/0.2 = 500 coins; the remaining 500 earn
		// 500*0.1 = 50 exp at level 2.
		{"one thousand coin recharge", 1, 0, 1000, 2, 50, true},
		{"exact level fill", 1, 0, 500, 2, 0, true},
		{"starts mid level", 1, 50, 250, 2, 0, true},
		// 500 fills level 1, 1000 fills level 2, 2000 fills level 3,
		// 500 left earns 500*0.025 = 12.5 at level 4.
		{"multiple crossings", 1, 0, 4000, 4, 12.5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := testRates.ApplyFuel(tc.level, tc.exp, tc.fuel, PolicyPerCoin)
			if got.Level != tc.wantLevel || !almostEqual(got.Exp, tc.wantExp) || got.LeveledUp != tc.wantUp {
				t.Fatalf("ApplyFuel(%d, %v, %v) = %+v; want level=%d exp=%v leveledUp=%v",
					tc.level, tc.exp, tc.fuel, got, tc.wantLevel, tc.wantExp, tc.wantUp)
			}
		})
	}
}

func TestApplyFuel_PerCoinFloor(t *testing.T) {
	// At level 6 the rate is 0.2*0.5^5 = 0.00625, below the 0.01 floor.
	// Fuel must be discarded: no exp gain, no level change, no hang.
	got := testRates.ApplyFuel(6, 42, 1_000_000, PolicyPerCoin)
	if got.Level != 6 || !almostEqual(got.Exp, 42) || got.LeveledUp {
		t.Fatalf("expected fuel discarded at floor, got %+v", got)
	}
}

func TestApplyFuel_PerCoinStopsAtFloorMidway(t *testing.T) {
	// Level 5 rate is 0.0125 (above floor), level 6 rate is below. A huge
	// recharge fills level 5 exactly once and drops the rest.
	got := testRates.ApplyFuel(5, 0, 1_000_000, PolicyPerCoin)
	if got.Level != 6 || !almostEqual(got.Exp, 0) || !got.LeveledUp {
		t.Fatalf("expected exactly one level-up before the floor, got %+v", got)
	}
}

func TestApplyFuel_PerPage(t *testing.T) {
	cases := []struct {
		name      string
		level     int
		exp       float64
		pages     float64
		wantLevel int
		wantExp   float64
		wantUp    bool
	}{
		{"no pages", 1, 0, 0, 1, 0, false},
		{"small read", 1, 0, 10, 1, 20, false},
		// 60 pages * 2.0 = 120 exp: one crossing, 20 left.
		{"crosses once", 1, 0, 60, 2, 20, true},
		// flat mode uses the starting level's rate for the whole event
		{"level three rate", 3, 0, 10, 3, 5, false},
		// 110 pages * 2.0 = 220: two crossings in one event.
		{"crosses twice", 1, 0, 110, 3, 20, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := testRates.ApplyFuel(tc.level, tc.exp, tc.pages, PolicyPerPage)
			if got.Level != tc.wantLevel || !almostEqual(got.Exp, tc.wantExp) || got.LeveledUp != tc.wantUp {
				t.Fatalf("ApplyFuel(%d, %v, %v) = %+v; want level=%d exp=%v leveledUp=%v",
					tc.level, tc.exp, tc.pages, got, tc.wantLevel, tc.wantExp, tc.wantUp)
			}
		})
	}
}

// Levels never decrease and exp always stays inside [0,100) for arbitrary
// sequences of events.
func TestApplyFuel_Monotonic(t *testing.T) {
	level, exp := 1, 0.0
	fuels := []float64{3, 700, 0.5, 12000, 1, 999, 250000, 7}
	for i, fuel := range fuels {
		policy := PolicyPerCoin
		if i%2 == 1 {
			policy = PolicyPerPage
		}
		got := testRates.ApplyFuel(level, exp, fuel, policy)
		if got.Level < level {
			t.Fatalf("step %d: level decreased %d -> %d", i, level, got.Level)
		}
		if got.Exp < 0 || got.Exp >= 100 {
			t.Fatalf("step %d: exp %v out of [0,100)", i, got.Exp)
		}
		if got.LeveledUp != (got.Level > level) {
			t.Fatalf("step %d: leveledUp=%v but level %d -> %d", i, got.LeveledUp, level, got.Level)
		}
		level, exp = got.Level, got.Exp
	}
}

func TestApplyFuel_NormalizesBadInput(t *testing.T) {
	got := testRates.ApplyFuel(0, -5, 0, PolicyPerCoin)
	if got.Level != 1 || got.Exp != 0 {
		t.Fatalf("expected input clamped to level 1 exp 0, got %+v", got)
	}
}
