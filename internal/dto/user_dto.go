package dto

import "time"

type ProfileResponse struct {
	Id        string                 `json:"id"`
	Username  string                 `json:"username"`
	Email     string                 `json:"email"`
	Bio       string                 `json:"bio"`
	Fields    map[string]interface{} `json:"fields"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// UpdateProfileRequest replaces only the fields that are present.
type UpdateProfileRequest struct {
	Username *string                `json:"username" validate:"omitempty,max=64"`
	Email    *string                `json:"email" validate:"omitempty,email"`
	Bio      *string                `json:"bio" validate:"omitempty,max=2000"`
	Fields   map[string]interface{} `json:"fields"`
}
