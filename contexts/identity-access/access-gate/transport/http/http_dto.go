package httptransport

// UserProfileDTO is the profile snapshot returned with a capability decision.
type UserProfileDTO struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	DealerStatus string `json:"dealerStatus,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// AdminStatusResponse is the admin capability decision. Error and Debug are
// populated on failures; Debug may name the looked-up email for operator
// diagnosis and must never be rendered verbatim to end users.
type AdminStatusResponse struct {
	IsAdmin bool            `json:"isAdmin"`
	User    *UserProfileDTO `json:"user,omitempty"`
	Error   string          `json:"error,omitempty"`
	Debug   string          `json:"debug,omitempty"`
}

// DealerStatusRequest asserts the caller's identity. ClerkUserID must equal
// the session's own subject id.
type DealerStatusRequest struct {
	Email       string `json:"email"`
	ClerkUserID string `json:"clerkUserId"`
}

// DealerStatusResponse is the dealer capability decision.
type DealerStatusResponse struct {
	IsApprovedDealer bool            `json:"isApprovedDealer"`
	User             *UserProfileDTO `json:"user,omitempty"`
}

// CreateDealerApplicationRequest registers a pending dealer record.
type CreateDealerApplicationRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	BusinessName string `json:"businessName,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// SetDealerStatusRequest promotes or rejects a dealer record.
type SetDealerStatusRequest struct {
	Status string `json:"status"`
}

// RecordResponse mirrors a persisted authorization record.
type RecordResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DealerStatus string `json:"dealerStatus,omitempty"`
	FullName     string `json:"fullName"`
	BusinessName string `json:"businessName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// ErrorResponse is the structured failure payload shared by all routes.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
