package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/db"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/auth"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// SchoolStore is the persistence surface for tenant schools.
type SchoolStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, school *models.School) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.School, error)
	NameExists(ctx context.Context, name string) (bool, error)
	UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) error
}

// AccountStore creates and checks user accounts during onboarding.
type AccountStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// RoleCreator creates roles during onboarding.
type RoleCreator interface {
	CreateTx(ctx context.Context, tx pgx.Tx, role *models.Role) (int64, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// WelcomeNotifier delivers the admin welcome email in the background.
type WelcomeNotifier interface {
	NotifyWelcome(toEmail, toName, username string)
}

// SchoolService onboards tenants and advances their registration status.
type SchoolService interface {
	Onboard(ctx context.Context, req *dto.OnboardSchoolRequest) (*models.School, *models.User, error)
	GetSchool(ctx context.Context, id int64) (*models.School, error)
	AdvanceRegistration(ctx context.Context, id int64) (*models.School, error)
}

type schoolServiceImpl struct {
	schools  SchoolStore
	users    AccountStore
	roles    RoleCreator
	tx       TxRunner
	notifier WelcomeNotifier
}

// NewSchoolService creates a new school service instance
func NewSchoolService(schools SchoolStore, users AccountStore, roles RoleCreator, tx TxRunner, notifier WelcomeNotifier) SchoolService {
	return &schoolServiceImpl{
		schools:  schools,
		users:    users,
		roles:    roles,
		tx:       tx,
		notifier: notifier,
	}
}

// Onboard creates a school, its admin role and its admin account in one
// transaction. A failure at any step leaves nothing behind.
func (s *schoolServiceImpl) Onboard(ctx context.Context, req *dto.OnboardSchoolRequest) (*models.School, *models.User, error) {
	exists, err := s.schools.NameExists(ctx, req.Name)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, apperrors.ErrSchoolAlreadyExists
	}

	if taken, err := s.users.UsernameExists(ctx, req.Admin.Username); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, apperrors.ErrUsernameExists
	}
	if taken, err := s.users.EmailExists(ctx, req.Admin.Email); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Admin.Password)
	if err != nil {
		return nil, nil, err
	}

	var schoolID, adminID int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		school := &models.School{
			Name:          req.Name,
			AddressLine1:  req.AddressLine1,
			AddressLine2:  optional(req.AddressLine2),
			City:          req.City,
			PostCode:      req.PostCode,
			Country:       req.Country,
			EmployeeCount: req.EmployeeCount,
		}
		schoolID, err = s.schools.CreateTx(ctx, tx, school)
		if err != nil {
			return err
		}

		adminRole := &models.Role{
			SchoolID:    schoolID,
			Name:        "admin",
			Description: "School administrator",
			Permissions: []string{
				models.PermissionAssumeAnyRole,
				models.PermissionManagePersonalProfile,
			},
		}
		roleID, err := s.roles.CreateTx(ctx, tx, adminRole)
		if err != nil {
			return err
		}

		admin := &models.User{
			SchoolID:  schoolID,
			RoleID:    &roleID,
			FirstName: req.Admin.FirstName,
			LastName:  req.Admin.LastName,
			Username:  req.Admin.Username,
			Email:     req.Admin.Email,
			Password:  hash,
		}
		adminID, err = s.users.CreateTx(ctx, tx, admin)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	school, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		return nil, nil, err
	}
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyWelcome(admin.Email, admin.FullName(), admin.Username)
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Str("name", school.Name).
		Msg("School onboarded")

	return school, admin, nil
}

// GetSchool returns one school profile.
func (s *schoolServiceImpl) GetSchool(ctx context.Context, id int64) (*models.School, error) {
	return s.schools.GetByID(ctx, id)
}

// AdvanceRegistration moves the school's onboarding status one step forward.
// Terminal schools stay where they are.
func (s *schoolServiceImpl) AdvanceRegistration(ctx context.Context, id int64) (*models.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := school.RegistrationStatus.Next()
	if next == school.RegistrationStatus {
		return school, nil
	}

	if err := s.schools.UpdateRegistrationStatus(ctx, id, next); err != nil {
		return nil, err
	}
	school.RegistrationStatus = next

	return school, nil
}
