package entities

import "time"

// Role classifies the holder of an authorization record.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDealer   Role = "dealer"
	RoleAdmin    Role = "admin"
)

// DealerStatus tracks the approval lifecycle of a dealer record.
// It is meaningful only when the record role is RoleDealer.
type DealerStatus string

const (
	DealerStatusPending  DealerStatus = "pending"
	DealerStatusApproved DealerStatus = "approved"
	DealerStatusRejected DealerStatus = "rejected"
)

// AuthorizationRecord is the internally persisted capability row, keyed by
// email rather than by identity-provider subject id. The email join across the
// two identity spaces is deliberate: the record store predates the identity
// provider and is maintained by back-office operations.
type AuthorizationRecord struct {
	RecordID     string
	Email        string
	Role         Role
	DealerStatus DealerStatus
	FullName     string
	BusinessName string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole reports whether the role is one of the supported values.
func ValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleDealer, RoleAdmin:
		return true
	default:
		return false
	}
}

// ValidDealerStatus reports whether the status is one of the supported values.
func ValidDealerStatus(status DealerStatus) bool {
	switch status {
	case DealerStatusPending, DealerStatusApproved, DealerStatusRejected:
		return true
	default:
		return false
	}
}
