package user

import (
	"time"

	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
)

const DefaultAvatar = "images/avatars/default.jpg"

type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsStaff      bool
	IsActive     bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile extends User one-to-one.
type Profile struct {
	ID                int64
	Phone             string
	Department        string
	Position          string
	Avatar            string
	IsManager         bool
	NotificationEmail string
}

// NewUser builds an active non-staff account with an empty profile.
func NewUser(req RegisterRequest, passwordHash string) *User {
	now := time.Now()
	return &User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		IsActive:     true,
		Profile: Profile{
			Phone:      req.Phone,
			Department: req.Department,
			Position:   req.Position,
			Avatar:     DefaultAvatar,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply copies the non-nil fields of req.
func (u *User) Apply(req ProfileUpdateRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FirstName, req.FirstName)
	set(&u.LastName, req.LastName)
	set(&u.Email, req.Email)
	set(&u.Profile.Phone, req.Phone)
	set(&u.Profile.Department, req.Department)
	set(&u.Profile.Position, req.Position)
	set(&u.Profile.NotificationEmail, req.NotificationEmail)
	if req.IsManager != nil {
		u.Profile.IsManager = *req.IsManager
	}
	u.UpdatedAt = time.Now()
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		Profile: ProfileResponse{
			Phone:             u.Profile.Phone,
			Department:        u.Profile.Department,
			Position:          u.Profile.Position,
			Avatar:            u.Profile.Avatar,
			IsManager:         u.Profile.IsManager,
			NotificationEmail: u.Profile.NotificationEmail,
		},
		CreatedAt: u.CreatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func ProfileToDataModel(u *User) *userDatamodel.Profile {
	return &userDatamodel.Profile{
		ID:                u.Profile.ID,
		UserID:            u.ID,
		Phone:             u.Profile.Phone,
		Department:        u.Profile.Department,
		Position:          u.Profile.Position,
		Avatar:            u.Profile.Avatar,
		IsManager:         u.Profile.IsManager,
		NotificationEmail: u.Profile.NotificationEmail,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	out := &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if p := u.Profile; p != nil {
		out.Profile = Profile{
			ID:                p.ID,
			Phone:             p.Phone,
			Department:        p.Department,
			Position:          p.Position,
			Avatar:            p.Avatar,
			IsManager:         p.IsManager,
			NotificationEmail: p.NotificationEmail,
		}
	}
	return out
}
