package progression

import "errors"

// ErrEmptyRewardTable is returned when the daily reward schedule has no
// entries; a claim can never be priced against an empty table.
var ErrEmptyRewardTable = errors.New("daily reward table is empty")

// DefaultDailyRewards is the stock seven-day schedule, used when the
// DAILY_REWARDS env var is not set.
var DefaultDailyRewards = RewardTable{15, 20, 25, 30, 40, 50, 70}

// RewardTable is the cyclic daily-reward schedule: index 0 is streak day 1.
// Day len+1 wraps back to day 1's tier.
type RewardTable []int64

// AmountFor returns the coin reward for the given streak day (1-based).
func (t RewardTable) AmountFor(day int) (int64, error) {
	if len(t) == 0 {
		return 0, ErrEmptyRewardTable
	}
	if day < 1 {
		day = 1
	}
	return t[(day-1)%len(t)], nil
}

// Validate rejects tables that cannot price a claim.
func (t RewardTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyRewardTable
	}
	for _, amount := range t {
		if amount <= 0 {
			return errors.New("daily reward amounts must be positive")
		}
	}
	return nil
}
