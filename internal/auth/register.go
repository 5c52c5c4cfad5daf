package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/internal/users"
	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/db"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/security"
)

var studentIDPattern = regexp.MustCompile(`^[A-Z0-9]{6,20}$`)

const (
	minGraduationYear = 2020
	maxGraduationYear = 2030
)

// RegisterRequest contains the payload required to open a student account.
type RegisterRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=30"`
	LastName       string  `json:"last_name" validate:"required,max=30"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required"`
	StudentID      string  `json:"student_id" validate:"required"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=15"`
	Department     string  `json:"department,omitempty" validate:"max=100"`
	GraduationYear *int    `json:"graduation_year,omitempty"`
}

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LedgerOpener creates the coin ledger for a new account inside the caller's transaction.
type LedgerOpener interface {
	OpenTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.CoinLedger, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	Ledger         LedgerOpener
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	ledger      LedgerOpener
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger required")
	}
	return &registerService{
		db:          params.DB,
		ledger:      params.Ledger,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	studentID := users.NormalizeStudentID(req.StudentID)
	if !studentIDPattern.MatchString(studentID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student id must be 6-20 uppercase letters or digits")
	}
	if req.GraduationYear != nil && (*req.GraduationYear < minGraduationYear || *req.GraduationYear > maxGraduationYear) {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "graduation year must be between %d and %d", minGraduationYear, maxGraduationYear)
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if err := security.CheckPasswordPolicy(req.Password, email, studentID, firstName, lastName); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.createAccount(ctx, users.CreateUserDTO{
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      firstName,
		LastName:       lastName,
		StudentID:      &studentID,
		Phone:          req.Phone,
		Department:     strings.TrimSpace(req.Department),
		GraduationYear: req.GraduationYear,
	})
}

// createAccount inserts the user and opens its coin ledger in one
// transaction. Email and student id collisions, including ones lost to a
// concurrent insert, surface as conflicts.
func (s *registerService) createAccount(ctx context.Context, dto users.CreateUserDTO) (*users.UserDTO, error) {
	var created *users.UserDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		if err := ensureEmailAvailable(ctx, userRepo, dto.Email); err != nil {
			return err
		}
		if dto.StudentID != nil {
			taken, err := userRepo.ExistsByStudentID(ctx, *dto.StudentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check student id")
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, "student id already registered")
			}
		}

		user, err := userRepo.Create(ctx, dto)
		switch {
		case db.IsUniqueViolation(err, "student_id"):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "student id already registered")
		case db.IsUniqueViolation(err, "email"):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if _, err := s.ledger.OpenTx(ctx, tx, user.ID); err != nil {
			return err
		}
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type emailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

func ensureEmailAvailable(ctx context.Context, repo emailFinder, email string) error {
	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	return nil
}
