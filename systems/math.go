package systems

import "math"

// clamp bounds v to [minVal, maxVal].
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Angle functions

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// jitter returns a uniform perturbation in [-Pi/4, Pi/4).
func jitter(r float64) float64 {
	return (r - 0.5) * math.Pi / 2
}
