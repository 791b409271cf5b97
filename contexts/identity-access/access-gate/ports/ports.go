package ports

import (
	"context"
	"time"

	"dealerportal/contexts/identity-access/access-gate/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new record rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CreateRecordInput is persisted as a single authorization record row.
type CreateRecordInput struct {
	RecordID     string
	Email        string
	Role         entities.Role
	DealerStatus entities.DealerStatus
	FullName     string
	BusinessName string
	Phone        string
	CreatedAt    time.Time
}

// DealerStatusUpdate promotes or rejects an existing dealer record.
type DealerStatusUpdate struct {
	Email     string
	Status    entities.DealerStatus
	UpdatedAt time.Time
}

// RecordStore is the boundary to the authorization record persistence.
// Status reconciliation only reads; the mutation methods back the
// out-of-band record administration commands.
type RecordStore interface {
	GetRecordByEmail(ctx context.Context, email string) (entities.AuthorizationRecord, error)
	CreateRecord(ctx context.Context, input CreateRecordInput) (entities.AuthorizationRecord, error)
	SetDealerStatus(ctx context.Context, update DealerStatusUpdate) (entities.AuthorizationRecord, error)
}
