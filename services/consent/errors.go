package consent

import "errors"

var (
	// ErrParentRequired is returned when coppa_parental consent arrives
	// without a parent member ID. Nothing is written in that case.
	ErrParentRequired = errors.New("Parent user ID required for COPPA consent")
	// ErrUnknownConsentType is returned for consent types outside the enum.
	ErrUnknownConsentType = errors.New("Unknown consent type")
	// ErrUnknownMethod is returned for verification methods outside the enum.
	ErrUnknownMethod = errors.New("Unknown verification method")
	// ErrVerificationFailed is returned when a verification strategy ran but
	// did not establish parental identity.
	ErrVerificationFailed = errors.New("Parental verification failed")
)
