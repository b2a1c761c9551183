package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VitalRepository interface {
	Create(ctx context.Context, vital *entity.Vital) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Vital, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Vital, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListInRange returns readings ordered oldest first; nil bounds are open.
	ListInRange(ctx context.Context, userID uuid.UUID, start, end *time.Time, limit int) ([]*entity.Vital, error)
	Update(ctx context.Context, vital *entity.Vital) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type vitalRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVitalRepository(db database.PgxIface, log *zap.Logger) VitalRepository {
	return &vitalRepository{
		db:  db,
		log: log.With(zap.String("repository", "vital")),
	}
}

const vitalColumns = `id, user_id, systolic_bp, diastolic_bp, heart_rate, spo2, weight, reading_time, recorded_at`

func scanVital(row pgx.Row) (*entity.Vital, error) {
	var v entity.Vital
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.SystolicBP,
		&v.DiastolicBP,
		&v.HeartRate,
		&v.SpO2,
		&v.Weight,
		&v.ReadingTime,
		&v.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vitalRepository) Create(ctx context.Context, vital *entity.Vital) error {
	query := `
		INSERT INTO user_vitals (` + vitalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		vital.ID,
		vital.UserID,
		vital.SystolicBP,
		vital.DiastolicBP,
		vital.HeartRate,
		vital.SpO2,
		vital.Weight,
		vital.ReadingTime,
		vital.RecordedAt,
	)
	if err != nil {
		r.log.Error("Failed to create vital",
			zap.Error(err),
			zap.String("user_id", vital.UserID.String()),
		)
		return fmt.Errorf("create vital: %w", err)
	}

	return nil
}

func (r *vitalRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Vital, error) {
	query := `SELECT ` + vitalColumns + ` FROM user_vitals WHERE id = $1 AND user_id = $2`

	v, err := scanVital(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find vital",
			zap.Error(err),
			zap.String("vital_id", id.String()),
		)
		return nil, fmt.Errorf("find vital %s: %w", id, err)
	}

	return v, nil
}

func (r *vitalRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Vital, error) {
	query := `SELECT ` + vitalColumns + `
		FROM user_vitals
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *vitalRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_vitals WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count vitals", zap.Error(err))
		return 0, fmt.Errorf("count vitals of %s: %w", userID, err)
	}
	return count, nil
}

func (r *vitalRepository) ListInRange(ctx context.Context, userID uuid.UUID, start, end *time.Time, limit int) ([]*entity.Vital, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if start != nil {
		args = append(args, *start)
		conds = append(conds, fmt.Sprintf("recorded_at >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conds = append(conds, fmt.Sprintf("recorded_at < $%d", len(args)))
	}
	args = append(args, limit)

	query := `SELECT ` + vitalColumns + `
		FROM user_vitals
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY recorded_at ASC
		LIMIT $` + fmt.Sprint(len(args))

	return r.list(ctx, query, args...)
}

func (r *vitalRepository) Update(ctx context.Context, vital *entity.Vital) error {
	query := `
		UPDATE user_vitals
		SET systolic_bp = $3, diastolic_bp = $4, heart_rate = $5, spo2 = $6,
		    weight = $7, reading_time = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		vital.ID,
		vital.UserID,
		vital.SystolicBP,
		vital.DiastolicBP,
		vital.HeartRate,
		vital.SpO2,
		vital.Weight,
		vital.ReadingTime,
	)
	if err != nil {
		r.log.Error("Failed to update vital",
			zap.Error(err),
			zap.String("vital_id", vital.ID.String()),
		)
		return fmt.Errorf("update vital %s: %w", vital.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update vital %s: %w", vital.ID, ErrNotAffected)
	}

	return nil
}

func (r *vitalRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM user_vitals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete vital",
			zap.Error(err),
			zap.String("vital_id", id.String()),
		)
		return fmt.Errorf("delete vital %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete vital %s: %w", id, ErrNotAffected)
	}

	return nil
}

func (r *vitalRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Vital, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list vitals", zap.Error(err))
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	defer rows.Close()

	var vitals []*entity.Vital
	for rows.Next() {
		v, err := scanVital(rows)
		if err != nil {
			r.log.Error("Failed to scan vital row", zap.Error(err))
			return nil, fmt.Errorf("scan vital row: %w", err)
		}
		vitals = append(vitals, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vital rows: %w", err)
	}

	return vitals, nil
}
