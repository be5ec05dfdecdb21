package dto

import "cuponera_backend/internal/models"

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name       string          `json:"name" validate:"required"`
	Phone      string          `json:"phone" validate:"required"`
	Password   string          `json:"password" validate:"required,min=8"`
	Role       models.UserRole `json:"role" validate:"required,oneof=BUSINESS_OWNER STAFF"`
	BusinessID *string         `json:"business_id,omitempty"`
}
