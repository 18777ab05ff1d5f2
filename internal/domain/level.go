package domain

import "math"

// LevelForHours maps accrued volunteer hours to a level tier.
func LevelForHours(hours float64) int {
	switch {
	case hours < 10:
		return 1
	case hours < 25:
		return 2
	case hours < 50:
		return 3
	case hours < 100:
		return 4
	case hours < 200:
		return 5
	default:
		return int(math.Floor(hours/100)) + 4
	}
}
