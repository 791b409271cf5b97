package entities

import "time"

// Profile is the snapshot returned alongside a capability decision.
type Profile struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	DealerStatus DealerStatus
	BusinessName string
	Phone        string
}

// CapabilityResult is recomputed per request and never cached server-side.
type CapabilityResult struct {
	Granted   bool
	Profile   Profile
	CheckedAt time.Time
}
