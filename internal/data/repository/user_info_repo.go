package repository

import (
	"context"
	"errors"
	"fmt"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserInfoRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserInfo, error)
	Upsert(ctx context.Context, info *entity.UserInfo) error
}

type userInfoRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserInfoRepository(db database.PgxIface, log *zap.Logger) UserInfoRepository {
	return &userInfoRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_info")),
	}
}

func (r *userInfoRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserInfo, error) {
	query := `
		SELECT id, user_id, first_name, last_name, blood_group, age, height, weight,
		       city, country, pincode, is_active, created_at, updated_at
		FROM users_info
		WHERE user_id = $1
	`

	var info entity.UserInfo
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&info.ID,
		&info.UserID,
		&info.FirstName,
		&info.LastName,
		&info.BloodGroup,
		&info.Age,
		&info.Height,
		&info.Weight,
		&info.City,
		&info.Country,
		&info.Pincode,
		&info.IsActive,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user info",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find user info of %s: %w", userID, err)
	}

	return &info, nil
}

// Upsert keeps one profile row per user.
func (r *userInfoRepository) Upsert(ctx context.Context, info *entity.UserInfo) error {
	query := `
		INSERT INTO users_info (id, user_id, first_name, last_name, blood_group, age, height, weight,
		                        city, country, pincode, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    blood_group = EXCLUDED.blood_group,
		    age = EXCLUDED.age,
		    height = EXCLUDED.height,
		    weight = EXCLUDED.weight,
		    city = EXCLUDED.city,
		    country = EXCLUDED.country,
		    pincode = EXCLUDED.pincode,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		info.ID,
		info.UserID,
		info.FirstName,
		info.LastName,
		info.BloodGroup,
		info.Age,
		info.Height,
		info.Weight,
		info.City,
		info.Country,
		info.Pincode,
		info.IsActive,
		info.CreatedAt,
		info.UpdatedAt,
	).Scan(&info.ID, &info.CreatedAt)
	if err != nil {
		r.log.Error("Failed to upsert user info",
			zap.Error(err),
			zap.String("user_id", info.UserID.String()),
		)
		return fmt.Errorf("upsert user info of %s: %w", info.UserID, err)
	}

	return nil
}
