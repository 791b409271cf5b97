package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "dealerportal/contexts/identity-access/access-gate/application"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/ports"
)

// SetDealerStatusCommand approves or rejects an existing dealer record.
type SetDealerStatusCommand struct {
	Email  string
	Status entities.DealerStatus
}

type SetDealerStatusUseCase struct {
	Records ports.RecordStore
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (u SetDealerStatusUseCase) Execute(ctx context.Context, cmd SetDealerStatusCommand) (entities.AuthorizationRecord, error) {
	logger := application.ResolveLogger(u.Logger)

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" {
		return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
	}
	if !entities.ValidDealerStatus(cmd.Status) {
		return entities.AuthorizationRecord{}, domainerrors.ErrInvalidStatus
	}

	record, err := u.Records.SetDealerStatus(ctx, ports.DealerStatusUpdate{
		Email:     email,
		Status:    cmd.Status,
		UpdatedAt: u.now(),
	})
	if err != nil {
		logger.Warn("dealer status update failed",
			"event", "access_dealer_status_update_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"email", email,
			"status", string(cmd.Status),
			"error", err.Error(),
		)
		return entities.AuthorizationRecord{}, err
	}

	logger.Info("dealer status updated",
		"event", "access_dealer_status_updated",
		"module", "identity-access/access-gate",
		"layer", "application",
		"email", email,
		"status", string(cmd.Status),
	)
	return record, nil
}

func (u SetDealerStatusUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
