package request

type UpdateProfileRequest struct {
	FirstName  *string  `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string  `json:"last_name,omitempty" validate:"omitempty,max=100"`
	BloodGroup *string  `json:"blood_group,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Age        *int     `json:"age,omitempty" validate:"omitempty,gt=0,lt=150"`
	Height     *float64 `json:"height,omitempty" validate:"omitempty,gt=0,lt=300"`
	Weight     *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lt=500"`
	City       *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Country    *string  `json:"country,omitempty" validate:"omitempty,max=100"`
	Pincode    *string  `json:"pincode,omitempty" validate:"omitempty,max=20"`
}
