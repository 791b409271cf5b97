package services

import (
	"strings"

	"dealerportal/contexts/identity-access/access-gate/domain/entities"
)

// AdminCapability reports whether the record grants admin access.
// An admin role is sufficient on its own; no status field applies.
func AdminCapability(record entities.AuthorizationRecord) bool {
	return record.Role == entities.RoleAdmin
}

// DealerCapability reports whether the record grants dealer-portal access.
// Only an approved dealer passes; pending and rejected dealers do not.
func DealerCapability(record entities.AuthorizationRecord) bool {
	return record.Role == entities.RoleDealer && record.DealerStatus == entities.DealerStatusApproved
}

// DisplayName prefers the record's full name and falls back to the
// identity-provider name fragments, then to the record email.
func DisplayName(record entities.AuthorizationRecord, session entities.IdentitySession) string {
	if name := strings.TrimSpace(record.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(session.FirstName) + " " + strings.TrimSpace(session.LastName)); name != "" {
		return name
	}
	return record.Email
}

// BuildProfile assembles the per-request profile snapshot for a decision.
func BuildProfile(record entities.AuthorizationRecord, session entities.IdentitySession) entities.Profile {
	return entities.Profile{
		ID:           record.RecordID,
		Email:        record.Email,
		Name:         DisplayName(record, session),
		Role:         record.Role,
		DealerStatus: record.DealerStatus,
		BusinessName: record.BusinessName,
		Phone:        record.Phone,
	}
}
