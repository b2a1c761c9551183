package request

// ContactRequest carries an email address or phone number. Resend also accepts the
// explicit email / phone_number fields used by older clients.
type ContactRequest struct {
	Contact     string `json:"contact" validate:"omitempty,max=255"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,min=6,max=20"`
}

// Resolve returns the first non-empty contact field.
func (r ContactRequest) Resolve() string {
	switch {
	case r.Contact != "":
		return r.Contact
	case r.Email != "":
		return r.Email
	default:
		return r.PhoneNumber
	}
}

type VerifyOTPRequest struct {
	Contact    string  `json:"contact" validate:"required,max=255"`
	OTP        string  `json:"otp" validate:"required,numeric,min=4,max=10"`
	DeviceInfo *string `json:"device_info,omitempty" validate:"omitempty,max=255"`
}

type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,uuid"`
}

// ClientMeta describes where a session was opened from.
type ClientMeta struct {
	DeviceInfo *string
	IPAddress  *string
}
