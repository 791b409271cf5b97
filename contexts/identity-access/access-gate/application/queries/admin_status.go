package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "dealerportal/contexts/identity-access/access-gate/application"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/domain/services"
	"dealerportal/contexts/identity-access/access-gate/ports"
)

// AdminStatusQuery is the request model for the admin capability check.
type AdminStatusQuery struct {
	Session entities.IdentitySession
}

// AdminStatusUseCase reconciles an identity session with the authorization
// record store and decides the admin capability. Strictly read-only.
type AdminStatusUseCase struct {
	Records ports.RecordStore
	Clock   ports.Clock
	Logger  *slog.Logger
}

// Execute resolves the caller's email from its session, loads the record, and
// computes the decision. A missing record is a distinct outcome from a store
// failure and must never be reported as one.
func (u AdminStatusUseCase) Execute(ctx context.Context, query AdminStatusQuery) (entities.CapabilityResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if !query.Session.Active {
		return entities.CapabilityResult{}, domainerrors.ErrSessionRequired
	}
	email := strings.ToLower(strings.TrimSpace(query.Session.Email))
	if email == "" {
		logger.Warn("admin status check without resolvable email",
			"event", "access_admin_status_no_email",
			"module", "identity-access/access-gate",
			"layer", "application",
			"subject_id", query.Session.SubjectID,
		)
		return entities.CapabilityResult{}, domainerrors.ErrEmailMissing
	}

	record, err := u.Records.GetRecordByEmail(ctx, email)
	if err != nil {
		logger.Warn("admin status record lookup failed",
			"event", "access_admin_status_lookup_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"email", email,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrRecordNotFound) {
			return entities.CapabilityResult{}, fmt.Errorf("%w: no authorization record for %s", domainerrors.ErrRecordNotFound, email)
		}
		return entities.CapabilityResult{}, err
	}

	granted := services.AdminCapability(record)
	logger.Debug("admin status decided",
		"event", "access_admin_status_decided",
		"module", "identity-access/access-gate",
		"layer", "application",
		"email", email,
		"granted", granted,
	)
	return entities.CapabilityResult{
		Granted:   granted,
		Profile:   services.BuildProfile(record, query.Session),
		CheckedAt: u.now(),
	}, nil
}

func (u AdminStatusUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
