package engine

import "segmentservice/internal/apperror"

const (
	MinPercent = 0
	MaxPercent = 100
)

func ValidatePercent(percent int) error {
	if percent < MinPercent || percent > MaxPercent {
		return apperror.ErrPercentRange
	}
	return nil
}

// TargetCount returns round(totalUsers * percent / 100) with halves rounded up,
// capped at totalUsers. The arithmetic is exact integer arithmetic.
func TargetCount(totalUsers, percent int) int {
	if totalUsers <= 0 || percent <= 0 {
		return 0
	}
	target := (totalUsers*percent + 50) / 100
	if target > totalUsers {
		return totalUsers
	}
	return target
}
