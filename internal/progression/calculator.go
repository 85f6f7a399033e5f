package progression

import "math"

// RatePolicy selects how fuel converts into experience.
type RatePolicy int

const (
	// PolicyPerCoin is used for recharges and chapter-unlock spending. The
	// per-coin rate shrinks as the level rises, so fuel is consumed level by
	// level at the rate of each level it passes through.
	PolicyPerCoin RatePolicy = iota
	// PolicyPerPage is used for page-read events. The whole delta is computed
	// once at the starting level; reading events are small enough that a
	// mid-event rate change is not worth modelling.
	PolicyPerPage
)

// Rates holds the tuning constants for experience gain. Loaded once from
// config at startup and never mutated.
type Rates struct {
	BaseExpPerCoin  float64
	BaseExpPerPage  float64
	ReductionFactor float64 // per-level multiplier, < 1
	MinExpRate      float64 // per-coin floor; below it fuel yields nothing
}

// Result is the outcome of applying fuel to a (level, exp) pair.
type Result struct {
	Level     int
	Exp       float64
	LeveledUp bool
}

// PerCoinRate returns the experience one coin yields at the given level.
func (r Rates) PerCoinRate(level int) float64 {
	return r.BaseExpPerCoin * math.Pow(r.ReductionFactor, float64(level-1))
}

// PerPageRate returns the experience one page yields at the given level.
func (r Rates) PerPageRate(level int) float64 {
	return r.BaseExpPerPage * math.Pow(r.ReductionFactor, float64(level-1))
}

// ApplyFuel converts fuel (coins spent or pages read, per policy) into level
// and experience. Exp is kept in [0,100); each crossing of 100 increments the
// level by one. Pure function, safe for any caller.
//
// In per-coin mode, once the rate at the current level falls below MinExpRate
// the remaining fuel is discarded: progression soft-caps at high levels and
// spending past the floor yields no further experience.
func (r Rates) ApplyFuel(level int, exp float64, fuel float64, policy RatePolicy) Result {
	if level < 1 {
		level = 1
	}
	if exp < 0 {
		exp = 0
	}
	startLevel := level

	switch policy {
	case PolicyPerCoin:
		for fuel > 0 {
			rate := r.PerCoinRate(level)
			if rate < r.MinExpRate {
				// Soft cap: leftover fuel is dropped, not banked.
				break
			}
			needed := (100 - exp) / rate // coins to fill the current level
			if fuel >= needed {
				fuel -= needed
				level++
				exp = 0
			} else {
				exp += fuel * rate
				fuel = 0
			}
		}
	case PolicyPerPage:
		exp += fuel * r.PerPageRate(level)
		for exp >= 100 {
			exp -= 100
			level++
		}
	}

	// Guard against float drift landing exactly on the boundary.
	if exp >= 100 {
		exp -= 100
		level++
	}
	if exp < 0 {
		exp = 0
	}

	return Result{
		Level:     level,
		Exp:       exp,
		LeveledUp: level > startLevel,
	}
}
