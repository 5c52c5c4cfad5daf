package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	FullName       string         `json:"full_name"`
	StudentID      *string        `json:"student_id,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Department     string         `json:"department,omitempty"`
	GraduationYear *int           `json:"graduation_year,omitempty"`
	Role           enums.UserRole `json:"role"`
	IsActive       bool           `json:"is_active"`
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	StudentID      *string
	Phone          *string
	Department     string
	GraduationYear *int
	IsStaff        bool
	IsActive       *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		StudentID:      u.StudentID,
		Phone:          u.Phone,
		Department:     u.Department,
		GraduationYear: u.GraduationYear,
		Role:           enums.RoleForStaff(u.IsStaff),
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	var studentID *string
	if c.StudentID != nil {
		normalized := NormalizeStudentID(*c.StudentID)
		if normalized != "" {
			studentID = &normalized
		}
	}

	return &models.User{
		ID:             uuid.New(),
		Email:          NormalizeEmail(c.Email),
		PasswordHash:   c.PasswordHash,
		FirstName:      strings.TrimSpace(c.FirstName),
		LastName:       strings.TrimSpace(c.LastName),
		StudentID:      studentID,
		Phone:          c.Phone,
		Department:     strings.TrimSpace(c.Department),
		GraduationYear: c.GraduationYear,
		IsStaff:        c.IsStaff,
		IsActive:       isActive,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeStudentID uppercases and trims a student id.
func NormalizeStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
