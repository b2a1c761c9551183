package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/dto/request"
	"heartcoach/internal/dto/response"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenTypeBearer = "bearer"

type AuthService interface {
	// LoginWithOTP verifies the code and signs the contact in, creating the account on first use.
	LoginWithOTP(ctx context.Context, req *request.VerifyOTPRequest, meta request.ClientMeta) (*response.TokenResponse, error)
	Signup(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta request.ClientMeta) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest, meta request.ClientMeta) (*response.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	repo   *repository.Repository // user, user info & session
	otp    OTPService
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	otp OTPService,
	config *utils.Config,
	now func() time.Time,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		config: config,
		now:    now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) LoginWithOTP(ctx context.Context, req *request.VerifyOTPRequest, meta request.ClientMeta) (*response.TokenResponse, error) {
	// 1. Verify code
	ok, err := s.otp.VerifyCode(ctx, req.Contact, req.OTP)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &requestError{msg: "Invalid or expired code", kind: ErrUnauthorized}
	}

	// 2. Find or create the account behind the contact
	user, err := s.findOrCreateByContact(ctx, utils.NormalizeContact(req.Contact))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, &requestError{msg: "Account is disabled", kind: ErrUnauthorized}
	}

	// 3. Issue credentials
	if req.DeviceInfo != nil {
		meta.DeviceInfo = req.DeviceInfo
	}
	return s.issueTokens(ctx, user, meta)
}

func (s *authService) findByContact(ctx context.Context, contact string) (*entity.User, error) {
	if utils.IsEmail(contact) {
		return s.repo.User.FindByEmail(ctx, contact)
	}
	return s.repo.User.FindByPhone(ctx, contact)
}

func (s *authService) findOrCreateByContact(ctx context.Context, contact string) (*entity.User, error) {
	user, err := s.findByContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("find user by contact: %w", err)
	}
	if user != nil {
		return user, nil
	}

	now := s.now()
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if utils.IsEmail(contact) {
		user.Email = &contact
	} else {
		user.PhoneNumber = &contact
	}

	err = s.repo.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent login created the same account
		user, err = s.findByContact(ctx, contact)
		if err == nil && user == nil {
			err = errors.New("user vanished after duplicate insert")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create user for contact: %w", err)
	}

	s.log.Info("User created from otp login", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, error) {
	// 1. Hash password
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 2. Create user
	email := utils.NormalizeContact(req.Email)
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        &email,
		PasswordHash: &hash,
		Role:         entity.RoleUser,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &requestError{msg: "Email exists", kind: ErrConflict}
		}
		return nil, err
	}

	// 3. Seed the profile with the full name
	var info *entity.UserInfo
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		info = newUserInfo(user.ID, now)
		first, last, _ := strings.Cut(strings.TrimSpace(*req.FullName), " ")
		info.FirstName = &first
		if last = strings.TrimSpace(last); last != "" {
			info.LastName = &last
		}
		if err := s.repo.UserInfo.Upsert(ctx, info); err != nil {
			s.log.Warn("Failed to seed profile after signup", zap.Error(err), zap.String("user_id", user.ID.String()))
			info = nil
		}
	}

	s.log.Info("User signed up", zap.String("user_id", user.ID.String()))
	resp := response.UserToResponse(user, info)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta request.ClientMeta) (*response.TokenResponse, error) {
	rejected := &requestError{msg: "Incorrect username or password", kind: ErrUnauthorized}

	user, err := s.repo.User.FindByEmail(ctx, utils.NormalizeContact(req.Username))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || user.PasswordHash == nil || !user.IsActive {
		return nil, rejected
	}
	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, rejected
	}

	return s.issueTokens(ctx, user, meta)
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest, meta request.ClientMeta) (*response.TokenResponse, error) {
	rejected := &requestError{msg: "Invalid refresh token", kind: ErrUnauthorized}

	token, err := uuid.Parse(req.RefreshToken)
	if err != nil {
		return nil, rejected
	}

	// 1. Session must be live
	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, rejected
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", session.UserID, err)
	}
	if user == nil || !user.IsActive {
		return nil, rejected
	}

	// 2. Rotate
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, rejected
		}
		return nil, err
	}
	if meta.DeviceInfo == nil {
		meta.DeviceInfo = session.DeviceInfo
	}
	return s.issueTokens(ctx, user, meta)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	token, err := uuid.Parse(refreshToken)
	if err != nil {
		return invalid("Invalid refresh token")
	}

	err = s.repo.Session.Revoke(ctx, token)
	if errors.Is(err, repository.ErrNotAffected) {
		return nil
	}
	return err
}

func (s *authService) issueTokens(ctx context.Context, user *entity.User, meta request.ClientMeta) (*response.TokenResponse, error) {
	now := s.now()
	access, expiresAt, err := utils.GenerateAccessToken(
		s.config.JWT.Secret,
		user.ID,
		string(user.Role),
		time.Duration(s.config.JWT.AccessExpiryMinute)*time.Minute,
		now,
	)
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:     user.ID,
		Token:      uuid.New(),
		DeviceInfo: meta.DeviceInfo,
		IPAddress:  meta.IPAddress,
		ExpiresAt:  now.AddDate(0, 0, s.config.JWT.RefreshExpiryDays),
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("Session issued", zap.String("user_id", user.ID.String()))
	return &response.TokenResponse{
		AccessToken:  access,
		TokenType:    tokenTypeBearer,
		ExpiresAt:    expiresAt,
		RefreshToken: session.Token.String(),
		UserID:       user.ID.String(),
	}, nil
}
