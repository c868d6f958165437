package user

import (
	"io"
	"time"
)

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,max=150"`
	Password   string `json:"password" validate:"required,min=8"`
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name" validate:"max=150"`
	LastName   string `json:"last_name" validate:"max=150"`
	Phone      string `json:"phone" validate:"max=20"`
	Department string `json:"department" validate:"max=100"`
	Position   string `json:"position" validate:"max=100"`
}

// ProfileUpdateRequest leaves a field untouched when it is nil.
type ProfileUpdateRequest struct {
	FirstName         *string `json:"first_name" validate:"omitempty,max=150"`
	LastName          *string `json:"last_name" validate:"omitempty,max=150"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Phone             *string `json:"phone" validate:"omitempty,max=20"`
	Department        *string `json:"department" validate:"omitempty,max=100"`
	Position          *string `json:"position" validate:"omitempty,max=100"`
	IsManager         *bool   `json:"is_manager"`
	NotificationEmail *string `json:"notification_email" validate:"omitempty,email"`
}

// Upload is an image file taken from a multipart request.
type Upload struct {
	Reader   io.Reader
	FileName string
}

type ProfileResponse struct {
	Phone             string `json:"phone"`
	Department        string `json:"department"`
	Position          string `json:"position"`
	Avatar            string `json:"avatar"`
	IsManager         bool   `json:"is_manager"`
	NotificationEmail string `json:"notification_email"`
}

type UserResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	IsStaff   bool            `json:"is_staff"`
	Profile   ProfileResponse `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
}
