package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WaterRepository interface {
	CreateGoal(ctx context.Context, goal *entity.WaterGoal) error
	// LatestGoal returns the most recently set goal, or nil.
	LatestGoal(ctx context.Context, userID uuid.UUID) (*entity.WaterGoal, error)
	// AddIntake adds ml to the user's row for date, creating it if needed, and returns the new total.
	AddIntake(ctx context.Context, userID uuid.UUID, date time.Time, ml int) (int, error)
	FindIntake(ctx context.Context, userID uuid.UUID, date time.Time) (*entity.WaterIntake, error)
	ResetIntake(ctx context.Context, userID uuid.UUID, date time.Time) error
}

type waterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaterRepository(db database.PgxIface, log *zap.Logger) WaterRepository {
	return &waterRepository{
		db:  db,
		log: log.With(zap.String("repository", "water")),
	}
}

func (r *waterRepository) CreateGoal(ctx context.Context, goal *entity.WaterGoal) error {
	query := `
		INSERT INTO water_goals (id, user_id, goal_ml, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, goal.ID, goal.UserID, goal.GoalML, goal.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create water goal",
			zap.Error(err),
			zap.String("user_id", goal.UserID.String()),
		)
		return fmt.Errorf("create water goal: %w", err)
	}

	return nil
}

func (r *waterRepository) LatestGoal(ctx context.Context, userID uuid.UUID) (*entity.WaterGoal, error) {
	query := `
		SELECT id, user_id, goal_ml, created_at
		FROM water_goals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var goal entity.WaterGoal
	err := r.db.QueryRow(ctx, query, userID).Scan(&goal.ID, &goal.UserID, &goal.GoalML, &goal.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find water goal",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find water goal of %s: %w", userID, err)
	}

	return &goal, nil
}

func (r *waterRepository) AddIntake(ctx context.Context, userID uuid.UUID, date time.Time, ml int) (int, error) {
	query := `
		INSERT INTO water_intake (id, user_id, intake_ml, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO UPDATE
		SET intake_ml = water_intake.intake_ml + EXCLUDED.intake_ml
		RETURNING intake_ml
	`

	var total int
	err := r.db.QueryRow(ctx, query, uuid.New(), userID, ml, date).Scan(&total)
	if err != nil {
		r.log.Error("Failed to add water intake",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("add water intake: %w", err)
	}

	return total, nil
}

func (r *waterRepository) FindIntake(ctx context.Context, userID uuid.UUID, date time.Time) (*entity.WaterIntake, error) {
	query := `
		SELECT id, user_id, intake_ml, date
		FROM water_intake
		WHERE user_id = $1 AND date = $2
	`

	var in entity.WaterIntake
	err := r.db.QueryRow(ctx, query, userID, date).Scan(&in.ID, &in.UserID, &in.IntakeML, &in.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find water intake",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find water intake: %w", err)
	}

	return &in, nil
}

func (r *waterRepository) ResetIntake(ctx context.Context, userID uuid.UUID, date time.Time) error {
	_, err := r.db.Exec(ctx, `DELETE FROM water_intake WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		r.log.Error("Failed to reset water intake",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("reset water intake: %w", err)
	}
	return nil
}
