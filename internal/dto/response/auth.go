package response

import (
	"time"

	"heartcoach/internal/data/entity"
)

type OTPDispatchResponse struct {
	Sent    bool   `json:"sent"`
	Channel string `json:"channel"`
}

// TokenResponse is returned by every login flow.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       string    `json:"user_id"`
}

type UserResponse struct {
	ID          string           `json:"id"`
	Email       *string          `json:"email,omitempty"`
	PhoneNumber *string          `json:"phone_number,omitempty"`
	Role        entity.UserRole  `json:"role"`
	CreatedAt   time.Time        `json:"created_at"`
	Info        *ProfileResponse `json:"info,omitempty"`
}

type ProfileResponse struct {
	FirstName  *string   `json:"first_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	BloodGroup *string   `json:"blood_group,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Height     *float64  `json:"height,omitempty"`
	Weight     *float64  `json:"weight,omitempty"`
	City       *string   `json:"city,omitempty"`
	Country    *string   `json:"country,omitempty"`
	Pincode    *string   `json:"pincode,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func UserToResponse(user *entity.User, info *entity.UserInfo) UserResponse {
	resp := UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
	if info != nil {
		profile := ProfileToResponse(info)
		resp.Info = &profile
	}
	return resp
}

func ProfileToResponse(info *entity.UserInfo) ProfileResponse {
	return ProfileResponse{
		FirstName:  info.FirstName,
		LastName:   info.LastName,
		BloodGroup: info.BloodGroup,
		Age:        info.Age,
		Height:     info.Height,
		Weight:     info.Weight,
		City:       info.City,
		Country:    info.Country,
		Pincode:    info.Pincode,
		UpdatedAt:  info.UpdatedAt,
	}
}
