package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "dealerportal/contexts/identity-access/access-gate/application"
	"dealerportal/contexts/identity-access/access-gate/application/commands"
	"dealerportal/contexts/identity-access/access-gate/application/queries"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	httptransport "dealerportal/contexts/identity-access/access-gate/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	AdminStatus             queries.AdminStatusUseCase
	DealerStatus            queries.DealerStatusUseCase
	CreateDealerApplication commands.CreateDealerApplicationUseCase
	SetDealerStatus         commands.SetDealerStatusUseCase
	Logger                  *slog.Logger
}

// AdminStatusHandler decides the admin capability for the session.
func (h Handler) AdminStatusHandler(ctx context.Context, session entities.IdentitySession) (httptransport.AdminStatusResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http admin status received",
		"event", "access_http_admin_status_received",
		"module", "identity-access/access-gate",
		"layer", "transport",
		"subject_id", session.SubjectID,
	)

	result, err := h.AdminStatus.Execute(ctx, queries.AdminStatusQuery{Session: session})
	if err != nil {
		return httptransport.AdminStatusResponse{}, err
	}
	return httptransport.AdminStatusResponse{
		IsAdmin: result.Granted,
		User:    profileDTO(result.Profile),
	}, nil
}

// DealerStatusHandler decides the dealer capability for the session.
func (h Handler) DealerStatusHandler(
	ctx context.Context,
	session entities.IdentitySession,
	request httptransport.DealerStatusRequest,
) (httptransport.DealerStatusResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http dealer status received",
		"event", "access_http_dealer_status_received",
		"module", "identity-access/access-gate",
		"layer", "transport",
		"subject_id", session.SubjectID,
		"asserted_subject_id", request.ClerkUserID,
	)

	result, err := h.DealerStatus.Execute(ctx, queries.DealerStatusQuery{
		Session:           session,
		AssertedEmail:     request.Email,
		AssertedSubjectID: request.ClerkUserID,
	})
	if err != nil {
		return httptransport.DealerStatusResponse{}, err
	}
	return httptransport.DealerStatusResponse{
		IsApprovedDealer: result.Granted,
		User:             profileDTO(result.Profile),
	}, nil
}

// CreateDealerApplicationHandler registers a pending dealer record.
// The caller must hold the admin capability.
func (h Handler) CreateDealerApplicationHandler(
	ctx context.Context,
	session entities.IdentitySession,
	request httptransport.CreateDealerApplicationRequest,
) (httptransport.RecordResponse, error) {
	if err := h.requireAdmin(ctx, session); err != nil {
		return httptransport.RecordResponse{}, err
	}

	record, err := h.CreateDealerApplication.Execute(ctx, commands.CreateDealerApplicationCommand{
		Email:        request.Email,
		FullName:     request.FullName,
		BusinessName: request.BusinessName,
		Phone:        request.Phone,
	})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return recordDTO(record), nil
}

// SetDealerStatusHandler approves or rejects an existing dealer record.
// The caller must hold the admin capability.
func (h Handler) SetDealerStatusHandler(
	ctx context.Context,
	session entities.IdentitySession,
	email string,
	request httptransport.SetDealerStatusRequest,
) (httptransport.RecordResponse, error) {
	if err := h.requireAdmin(ctx, session); err != nil {
		return httptransport.RecordResponse{}, err
	}

	record, err := h.SetDealerStatus.Execute(ctx, commands.SetDealerStatusCommand{
		Email:  email,
		Status: entities.DealerStatus(request.Status),
	})
	if err != nil {
		return httptransport.RecordResponse{}, err
	}
	return recordDTO(record), nil
}

func (h Handler) requireAdmin(ctx context.Context, session entities.IdentitySession) error {
	result, err := h.AdminStatus.Execute(ctx, queries.AdminStatusQuery{Session: session})
	if err != nil {
		return err
	}
	if !result.Granted {
		return domainerrors.ErrAdminRequired
	}
	return nil
}

func profileDTO(profile entities.Profile) *httptransport.UserProfileDTO {
	return &httptransport.UserProfileDTO{
		ID:           profile.ID,
		Email:        profile.Email,
		Name:         profile.Name,
		Role:         string(profile.Role),
		DealerStatus: string(profile.DealerStatus),
		BusinessName: profile.BusinessName,
		Phone:        profile.Phone,
	}
}

func recordDTO(record entities.AuthorizationRecord) httptransport.RecordResponse {
	return httptransport.RecordResponse{
		ID:           record.RecordID,
		Email:        record.Email,
		Role:         string(record.Role),
		DealerStatus: string(record.DealerStatus),
		FullName:     record.FullName,
		BusinessName: record.BusinessName,
		Phone:        record.Phone,
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
