package consent

import "time"

// COPPAAgeThreshold is the age below which parental consent is required.
const COPPAAgeThreshold = 13

// AgeAt computes a person's age in whole years at the given instant using
// exact year/month/day comparison. The birth date always comes from stored
// records, never from client input.
func AgeAt(birthDate, at time.Time) int {
	years := at.Year() - birthDate.Year()
	// Not yet had this year's birthday.
	if at.Month() < birthDate.Month() ||
		(at.Month() == birthDate.Month() && at.Day() < birthDate.Day()) {
		years--
	}
	return years
}

// IsUnderCOPPAAge reports whether a child is subject to COPPA at the given
// instant. A child who turns 13 today is not.
func IsUnderCOPPAAge(birthDate, at time.Time) bool {
	return AgeAt(birthDate, at) < COPPAAgeThreshold
}
