package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	"dealerportal/contexts/identity-access/access-gate/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type recordModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Role         string    `gorm:"column:role"`
	DealerStatus string    `gorm:"column:dealer_status"`
	FullName     string    `gorm:"column:full_name"`
	BusinessName string    `gorm:"column:business_name"`
	Phone        string    `gorm:"column:phone"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (recordModel) TableName() string { return "authorization_records" }

// Repository reads and mutates authorization records in PostgreSQL.
// Any infrastructure failure surfaces as ErrStoreUnavailable so the transport
// layer can distinguish a missing record from a broken store.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetRecordByEmail(ctx context.Context, email string) (entities.AuthorizationRecord, error) {
	var row recordModel
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
		}
		return entities.AuthorizationRecord{}, r.storeError("access_repo_get_record_failed", err,
			"email", normalizeEmail(email),
		)
	}
	return recordEntityFromModel(row), nil
}

func (r *Repository) CreateRecord(ctx context.Context, input ports.CreateRecordInput) (entities.AuthorizationRecord, error) {
	row := recordModel{
		ID:           input.RecordID,
		Email:        normalizeEmail(input.Email),
		Role:         string(input.Role),
		DealerStatus: string(input.DealerStatus),
		FullName:     input.FullName,
		BusinessName: input.BusinessName,
		Phone:        input.Phone,
		CreatedAt:    input.CreatedAt.UTC(),
		UpdatedAt:    input.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.AuthorizationRecord{}, domainerrors.ErrDuplicateRecord
		}
		return entities.AuthorizationRecord{}, r.storeError("access_repo_create_record_failed", err,
			"email", row.Email,
		)
	}
	return recordEntityFromModel(row), nil
}

func (r *Repository) SetDealerStatus(ctx context.Context, update ports.DealerStatusUpdate) (entities.AuthorizationRecord, error) {
	email := normalizeEmail(update.Email)

	var row recordModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&row).Error; err != nil {
			return err
		}
		if row.Role != string(entities.RoleDealer) {
			return domainerrors.ErrInvalidStatus
		}
		row.DealerStatus = string(update.Status)
		row.UpdatedAt = update.UpdatedAt.UTC()
		return tx.Model(&recordModel{}).
			Where("email = ?", email).
			Updates(map[string]any{
				"dealer_status": row.DealerStatus,
				"updated_at":    row.UpdatedAt,
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuthorizationRecord{}, domainerrors.ErrRecordNotFound
		}
		if errors.Is(err, domainerrors.ErrInvalidStatus) {
			return entities.AuthorizationRecord{}, err
		}
		return entities.AuthorizationRecord{}, r.storeError("access_repo_set_dealer_status_failed", err,
			"email", email,
			"status", string(update.Status),
		)
	}
	return recordEntityFromModel(row), nil
}

func (r *Repository) storeError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/access-gate",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("record store operation failed", fields...)
	return domainerrors.ErrStoreUnavailable
}

func recordEntityFromModel(row recordModel) entities.AuthorizationRecord {
	return entities.AuthorizationRecord{
		RecordID:     row.ID,
		Email:        row.Email,
		Role:         entities.Role(row.Role),
		DealerStatus: entities.DealerStatus(row.DealerStatus),
		FullName:     row.FullName,
		BusinessName: row.BusinessName,
		Phone:        row.Phone,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
