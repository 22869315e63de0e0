package synthesis

import "math"

// Lifecycle curve breakpoints, in months since launch.
const (
	rampEnd      = 3
	growthEnd    = 12
	plateauEnd   = 24
	declineEnd   = 36
	preLaunch    = 0.1
	tailFloor    = 0.2
	tailPerMonth = 0.02
)

// LifecycleFactor models ramp-up, plateau and decline of a product's sales.
// Months before launch get a fixed near-zero factor.
func LifecycleFactor(monthsSinceLaunch int) float64 {
	m := float64(monthsSinceLaunch)
	switch {
	case monthsSinceLaunch < 0:
		return preLaunch
	case monthsSinceLaunch < rampEnd:
		return lerp(0.4, 0.8, m/rampEnd)
	case monthsSinceLaunch < growthEnd:
		return lerp(0.8, 1.2, (m-rampEnd)/(growthEnd-rampEnd))
	case monthsSinceLaunch <= plateauEnd:
		return 1.2
	case monthsSinceLaunch <= declineEnd:
		return lerp(1.2, 0.8, (m-plateauEnd)/(declineEnd-plateauEnd))
	default:
		return math.Max(tailFloor, 0.8-tailPerMonth*(m-declineEnd))
	}
}

// TimeDecay discounts older months: max(0.3, 1 - 0.02*monthsAgo).
func TimeDecay(monthsAgo int) float64 {
	return math.Max(0.3, 1-0.02*float64(monthsAgo))
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
