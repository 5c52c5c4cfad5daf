package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a student or staff account.
type User struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email          string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	FirstName      string     `gorm:"column:first_name;not null"`
	LastName       string     `gorm:"column:last_name;not null"`
	StudentID      *string    `gorm:"column:student_id;type:text;uniqueIndex"`
	Phone          *string    `gorm:"column:phone"`
	Department     string     `gorm:"column:department;type:text"`
	GraduationYear *int       `gorm:"column:graduation_year"`
	IsStaff        bool       `gorm:"column:is_staff;not null"`
	IsActive       bool       `gorm:"column:is_active;not null"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name, falling back to the email address.
func (u User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}
