package auth

import (
	"context"
	"strings"

	"github.com/campusfound/lostfound-backend/internal/users"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/security"
)

// StaffRegisterRequest contains the credentials for a staff account. Used by
// the management CLI and, outside production, by the staff register route.
type StaffRegisterRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Department string `json:"department,omitempty"`
}

// StaffRegisterService creates staff users.
type StaffRegisterService interface {
	Register(ctx context.Context, req StaffRegisterRequest) (*users.UserDTO, error)
}

type staffRegisterService struct {
	base *registerService
}

// NewStaffRegisterService builds a staff registration service.
func NewStaffRegisterService(params RegisterServiceParams) (StaffRegisterService, error) {
	svc, err := NewRegisterService(params)
	if err != nil {
		return nil, err
	}
	return &staffRegisterService{base: svc.(*registerService)}, nil
}

func (s *staffRegisterService) Register(ctx context.Context, req StaffRegisterRequest) (*users.UserDTO, error) {
	dto := users.CreateUserDTO{
		Email:      users.NormalizeEmail(req.Email),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Department: strings.TrimSpace(req.Department),
		IsStaff:    true,
	}
	for _, f := range []struct{ name, value string }{
		{"email", dto.Email},
		{"first_name", dto.FirstName},
		{"last_name", dto.LastName},
	} {
		if f.value == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", f.name)
		}
	}
	if err := security.CheckPasswordPolicy(req.Password, dto.Email, dto.FirstName, dto.LastName); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	hash, err := security.HashPassword(req.Password, s.base.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	dto.PasswordHash = hash
	return s.base.createAccount(ctx, dto)
}
