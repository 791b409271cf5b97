package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "dealerportal/contexts/identity-access/access-gate/application"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/domain/services"
	"dealerportal/contexts/identity-access/access-gate/ports"
)

// DealerStatusQuery carries the session plus the identity asserted by the
// request body. AssertedSubjectID must equal the session's own subject id;
// that check is what blocks querying another identity's status.
type DealerStatusQuery struct {
	Session           entities.IdentitySession
	AssertedEmail     string
	AssertedSubjectID string
}

// DealerStatusUseCase decides the dealer capability for a verified session.
type DealerStatusUseCase struct {
	Records ports.RecordStore
	Clock   ports.Clock
	Logger  *slog.Logger
}

// Execute validates the cross-identity assertion, then loads the record by the
// email resolved from the session, never by the asserted one.
func (u DealerStatusUseCase) Execute(ctx context.Context, query DealerStatusQuery) (entities.CapabilityResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if !query.Session.Active {
		return entities.CapabilityResult{}, domainerrors.ErrSessionRequired
	}
	if strings.TrimSpace(query.AssertedSubjectID) == "" ||
		query.AssertedSubjectID != query.Session.SubjectID {
		logger.Warn("dealer status cross-identity query blocked",
			"event", "access_dealer_status_identity_mismatch",
			"module", "identity-access/access-gate",
			"layer", "application",
			"subject_id", query.Session.SubjectID,
			"asserted_subject_id", query.AssertedSubjectID,
		)
		return entities.CapabilityResult{}, domainerrors.ErrIdentityMismatch
	}

	email := strings.ToLower(strings.TrimSpace(query.Session.Email))
	if email == "" {
		return entities.CapabilityResult{}, domainerrors.ErrEmailMissing
	}

	record, err := u.Records.GetRecordByEmail(ctx, email)
	if err != nil {
		logger.Warn("dealer status record lookup failed",
			"event", "access_dealer_status_lookup_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"email", email,
			"error", err.Error(),
		)
		return entities.CapabilityResult{}, err
	}

	granted := services.DealerCapability(record)
	if !granted {
		logger.Info("dealer status denied",
			"event", "access_dealer_status_denied",
			"module", "identity-access/access-gate",
			"layer", "application",
			"email", email,
			"role", string(record.Role),
			"dealer_status", string(record.DealerStatus),
		)
	}
	return entities.CapabilityResult{
		Granted:   granted,
		Profile:   services.BuildProfile(record, query.Session),
		CheckedAt: u.now(),
	}, nil
}

func (u DealerStatusUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
