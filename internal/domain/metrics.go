package domain

// Pace returns minutes per kilometre. Callers guarantee distance > 0.
func Pace(distance, duration float64) float64 {
	return duration / distance
}

// Speed returns kilometres per hour. Callers guarantee duration > 0.
func Speed(distance, duration float64) float64 {
	return distance / (duration / 60)
}
