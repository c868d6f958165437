package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;size:150;not null"`
	Email        string    `gorm:"column:email"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsStaff      bool      `gorm:"column:is_staff"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
	Profile      *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile extends User one-to-one.
type Profile struct {
	ID                int64     `gorm:"primaryKey"`
	UserID            int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Phone             string    `gorm:"column:phone;size:20"`
	Department        string    `gorm:"column:department;size:100"`
	Position          string    `gorm:"column:position;size:100"`
	Avatar            string    `gorm:"column:avatar"`
	IsManager         bool      `gorm:"column:is_manager"`
	NotificationEmail string    `gorm:"column:notification_email"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null"`
	PermissionID int64     `gorm:"column:permission_id;not null"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
