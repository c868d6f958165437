package supplier

import "time"

type Supplier struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:255;not null"`
	Email       string    `gorm:"column:email"`
	Phone       string    `gorm:"column:phone;size:20"`
	Website     string    `gorm:"column:website"`
	Country     string    `gorm:"column:country;size:100"`
	PostalCode  string    `gorm:"column:postal_code;size:20"`
	Logo        string    `gorm:"column:logo"`
	IsActive    bool      `gorm:"column:is_active"`
	Rating      int       `gorm:"column:rating;not null"`
	Notes       string    `gorm:"column:notes;type:text"`
	CreatedByID *int64    `gorm:"column:created_by_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
