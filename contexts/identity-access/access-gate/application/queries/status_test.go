package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/ports"
)

type testStore struct {
	records map[string]entities.AuthorizationRecord
	err     error
}

func (s *testStore) GetRecordByEmail(_ context.Context, email string) (entities.AuthorizationRecord, error) {
	if s.err != nil {
		return entities.AuthorizationRecord{}, s.err
	}
	record, ok := s.records[email]
	if !ok {
		return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *testStore) CreateRecord(_ context.Context, _ ports.CreateRecordInput) (entities.AuthorizationRecord, error) {
	return entities.AuthorizationRecord{}, errors.New("not implemented")
}

func (s *testStore) SetDealerStatus(_ context.Context, _ ports.DealerStatusUpdate) (entities.AuthorizationRecord, error) {
	return entities.AuthorizationRecord{}, errors.New("not implemented")
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func activeSession() entities.IdentitySession {
	return entities.IdentitySession{
		SubjectID: "user_2x",
		Email:     "a@x.com",
		FirstName: "Asha",
		LastName:  "Shrestha",
		Active:    true,
	}
}

func TestAdminStatusGrantsOnlyAdminRole(t *testing.T) {
	cases := []struct {
		name string
		role entities.Role
		want bool
	}{
		{"admin granted", entities.RoleAdmin, true},
		{"dealer denied", entities.RoleDealer, false},
		{"customer denied", entities.RoleCustomer, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &testStore{records: map[string]entities.AuthorizationRecord{
				"a@x.com": {RecordID: "rec-1", Email: "a@x.com", Role: tc.role, FullName: "Asha S"},
			}}
			useCase := AdminStatusUseCase{Records: store, Clock: fixedClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}}

			result, err := useCase.Execute(context.Background(), AdminStatusQuery{Session: activeSession()})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Granted != tc.want {
				t.Fatalf("granted = %v, want %v", result.Granted, tc.want)
			}
			if result.Profile.Name != "Asha S" {
				t.Fatalf("expected profile name from record, got %q", result.Profile.Name)
			}
		})
	}
}

func TestAdminStatusRequiresSessionAndEmail(t *testing.T) {
	useCase := AdminStatusUseCase{Records: &testStore{}}

	_, err := useCase.Execute(context.Background(), AdminStatusQuery{Session: entities.IdentitySession{}})
	if !errors.Is(err, domainerrors.ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}

	session := activeSession()
	session.Email = "   "
	_, err = useCase.Execute(context.Background(), AdminStatusQuery{Session: session})
	if !errors.Is(err, domainerrors.ErrEmailMissing) {
		t.Fatalf("expected ErrEmailMissing, got %v", err)
	}
}

func TestAdminStatusMissingRecordIsNotAStoreFailure(t *testing.T) {
	useCase := AdminStatusUseCase{Records: &testStore{records: map[string]entities.AuthorizationRecord{}}}

	_, err := useCase.Execute(context.Background(), AdminStatusQuery{Session: activeSession()})
	if !errors.Is(err, domainerrors.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if errors.Is(err, domainerrors.ErrStoreUnavailable) {
		t.Fatal("missing record must not classify as a store failure")
	}
}

func TestAdminStatusPropagatesStoreFailure(t *testing.T) {
	useCase := AdminStatusUseCase{Records: &testStore{err: domainerrors.ErrStoreUnavailable}}

	_, err := useCase.Execute(context.Background(), AdminStatusQuery{Session: activeSession()})
	if !errors.Is(err, domainerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestDealerStatusApprovalMatrix(t *testing.T) {
	cases := []struct {
		name   string
		role   entities.Role
		status entities.DealerStatus
		want   bool
	}{
		{"approved dealer", entities.RoleDealer, entities.DealerStatusApproved, true},
		{"pending dealer", entities.RoleDealer, entities.DealerStatusPending, false},
		{"rejected dealer", entities.RoleDealer, entities.DealerStatusRejected, false},
		{"admin is not a dealer", entities.RoleAdmin, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &testStore{records: map[string]entities.AuthorizationRecord{
				"a@x.com": {RecordID: "rec-1", Email: "a@x.com", Role: tc.role, DealerStatus: tc.status},
			}}
			useCase := DealerStatusUseCase{Records: store}

			result, err := useCase.Execute(context.Background(), DealerStatusQuery{
				Session:           activeSession(),
				AssertedEmail:     "a@x.com",
				AssertedSubjectID: "user_2x",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Granted != tc.want {
				t.Fatalf("granted = %v, want %v", result.Granted, tc.want)
			}
		})
	}
}

func TestDealerStatusBlocksCrossIdentityQuery(t *testing.T) {
	// The body email matches a real approved dealer; the subject id does not
	// match the session. The mismatch must win.
	store := &testStore{records: map[string]entities.AuthorizationRecord{
		"a@x.com": {Email: "a@x.com", Role: entities.RoleDealer, DealerStatus: entities.DealerStatusApproved},
	}}
	useCase := DealerStatusUseCase{Records: store}

	_, err := useCase.Execute(context.Background(), DealerStatusQuery{
		Session:           activeSession(),
		AssertedEmail:     "a@x.com",
		AssertedSubjectID: "user_other",
	})
	if !errors.Is(err, domainerrors.ErrIdentityMismatch) {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
}

func TestDealerStatusLoadsBySessionEmailNotAssertedEmail(t *testing.T) {
	// Only the session email has a record. The asserted email points at a
	// different, approved dealer; the lookup must still use the session's.
	store := &testStore{records: map[string]entities.AuthorizationRecord{
		"other@x.com": {Email: "other@x.com", Role: entities.RoleDealer, DealerStatus: entities.DealerStatusApproved},
	}}
	useCase := DealerStatusUseCase{Records: store}

	_, err := useCase.Execute(context.Background(), DealerStatusQuery{
		Session:           activeSession(),
		AssertedEmail:     "other@x.com",
		AssertedSubjectID: "user_2x",
	})
	if !errors.Is(err, domainerrors.ErrRecordNotFound) {
		t.Fatalf("expected lookup by session email to miss, got %v", err)
	}
}
