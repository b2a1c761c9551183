package usecase

import (
	"context"
	"fmt"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/dto/request"
	"heartcoach/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
}

type userService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, now func() time.Time, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "user")),
	}
}

func newUserInfo(userID uuid.UUID, now time.Time) *entity.UserInfo {
	return &entity.UserInfo{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   userID,
		IsActive: true,
	}
}

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	info, err := s.repo.UserInfo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile of %s: %w", userID, err)
	}

	resp := response.UserToResponse(user, info)
	return &resp, nil
}

// UpdateProfile creates the profile on first use and applies the fields present in req.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	now := s.now()

	info, err := s.repo.UserInfo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile of %s: %w", userID, err)
	}
	if info == nil {
		info = newUserInfo(userID, now)
	}

	if req.FirstName != nil {
		info.FirstName = sanitizeText(req.FirstName)
	}
	if req.LastName != nil {
		info.LastName = sanitizeText(req.LastName)
	}
	if req.BloodGroup != nil {
		info.BloodGroup = req.BloodGroup
	}
	if req.Age != nil {
		info.Age = req.Age
	}
	if req.Height != nil {
		info.Height = req.Height
	}
	if req.Weight != nil {
		info.Weight = req.Weight
	}
	if req.City != nil {
		info.City = sanitizeText(req.City)
	}
	if req.Country != nil {
		info.Country = sanitizeText(req.Country)
	}
	if req.Pincode != nil {
		info.Pincode = sanitizeText(req.Pincode)
	}
	info.UpdatedAt = now

	if err := s.repo.UserInfo.Upsert(ctx, info); err != nil {
		return nil, err
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))
	resp := response.ProfileToResponse(info)
	return &resp, nil
}
