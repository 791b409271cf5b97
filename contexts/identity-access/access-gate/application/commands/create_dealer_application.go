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

// CreateDealerApplicationCommand registers a new dealer record in pending
// state. Promotion to approved happens through SetDealerStatus.
type CreateDealerApplicationCommand struct {
	Email        string
	FullName     string
	BusinessName string
	Phone        string
}

type CreateDealerApplicationUseCase struct {
	Records     ports.RecordStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateDealerApplicationUseCase) Execute(ctx context.Context, cmd CreateDealerApplicationCommand) (entities.AuthorizationRecord, error) {
	logger := application.ResolveLogger(u.Logger)

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(cmd.FullName) == "" {
		return entities.AuthorizationRecord{}, domainerrors.ErrInvalidApplication
	}

	recordID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.AuthorizationRecord{}, err
	}

	record, err := u.Records.CreateRecord(ctx, ports.CreateRecordInput{
		RecordID:     recordID,
		Email:        email,
		Role:         entities.RoleDealer,
		DealerStatus: entities.DealerStatusPending,
		FullName:     strings.TrimSpace(cmd.FullName),
		BusinessName: strings.TrimSpace(cmd.BusinessName),
		Phone:        strings.TrimSpace(cmd.Phone),
		CreatedAt:    u.now(),
	})
	if err != nil {
		logger.Warn("dealer application create failed",
			"event", "access_dealer_application_failed",
			"module", "identity-access/access-gate",
			"layer", "application",
			"email", email,
			"error", err.Error(),
		)
		return entities.AuthorizationRecord{}, err
	}

	logger.Info("dealer application created",
		"event", "access_dealer_application_created",
		"module", "identity-access/access-gate",
		"layer", "application",
		"record_id", record.RecordID,
		"email", email,
	)
	return record, nil
}

func (u CreateDealerApplicationUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
