package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the record store, clock, and id
// generator ports. It is intended for tests and local development wiring.
type Store struct {
	mu      sync.RWMutex
	records map[string]entities.AuthorizationRecord
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]entities.AuthorizationRecord),
	}
}

// SeedRecord inserts or replaces a record, normalizing the email key.
func (s *Store) SeedRecord(record entities.AuthorizationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	record.Email = normalizeEmail(record.Email)
	s.records[record.Email] = record
}

func (s *Store) GetRecordByEmail(_ context.Context, email string) (entities.AuthorizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[normalizeEmail(email)]
	if !ok {
		return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) CreateRecord(_ context.Context, input ports.CreateRecordInput) (entities.AuthorizationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(input.Email)
	if _, exists := s.records[email]; exists {
		return entities.AuthorizationRecord{}, domainerrors.ErrDuplicateRecord
	}

	record := entities.AuthorizationRecord{
		RecordID:     input.RecordID,
		Email:        email,
		Role:         input.Role,
		DealerStatus: input.DealerStatus,
		FullName:     input.FullName,
		BusinessName: input.BusinessName,
		Phone:        input.Phone,
		CreatedAt:    input.CreatedAt.UTC(),
		UpdatedAt:    input.CreatedAt.UTC(),
	}
	s.records[email] = record
	return record, nil
}

func (s *Store) SetDealerStatus(_ context.Context, update ports.DealerStatusUpdate) (entities.AuthorizationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(update.Email)
	record, ok := s.records[email]
	if !ok {
		return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
	}
	if record.Role != entities.RoleDealer {
		return entities.AuthorizationRecord{}, domainerrors.ErrInvalidStatus
	}
	record.DealerStatus = update.Status
	record.UpdatedAt = update.UpdatedAt.UTC()
	s.records[email] = record
	return record, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
