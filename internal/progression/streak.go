package progression

import (
	"math"
	"time"
)

// ClaimEvaluation is the decision for one daily-reward claim attempt.
type ClaimEvaluation struct {
	NextStreakDay       int
	Reset               bool
	AlreadyClaimedToday bool
}

// EvaluateClaim decides what a claim attempted today does to the streak.
// A nil lastClaim means the user has never claimed: day 1, no reset.
// Same calendar day (or a clock running backwards) rejects the claim;
// exactly one day later continues the streak; any longer gap resets it.
func EvaluateClaim(lastClaim *time.Time, streakLength int, today time.Time) ClaimEvaluation {
	if lastClaim == nil {
		return ClaimEvaluation{NextStreakDay: 1}
	}

	diffDays := daysBetween(*lastClaim, today)
	switch {
	case diffDays <= 0:
		return ClaimEvaluation{AlreadyClaimedToday: true}
	case diffDays == 1:
		return ClaimEvaluation{NextStreakDay: streakLength + 1}
	default:
		return ClaimEvaluation{NextStreakDay: 1, Reset: true}
	}
}

// daysBetween returns whole calendar days from a to b, ignoring time of day.
// Both are truncated in b's location so a claim at 23:59 followed by one at
// 00:01 counts as the next day. Rounding absorbs DST transitions: adjacent
// midnights sit 23 or 25 hours apart on changeover days and must still count
// as one day.
func daysBetween(a, b time.Time) int {
	loc := b.Location()
	da := dateOnly(a.In(loc))
	db := dateOnly(b)
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
