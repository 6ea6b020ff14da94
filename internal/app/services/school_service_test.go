package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/db"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

// onboardFixture backs all the onboarding interfaces with one in-memory
// tenant store. WithTransaction snapshots state and restores it on error,
// mirroring a rollback.
type onboardFixture struct {
	nextID  int64
	schools map[int64]*models.School
	users   map[int64]*models.User
	roles   map[int64]*models.Role

	failUserCreate bool
	welcomes       []string
}

func newOnboardFixture() *onboardFixture {
	return &onboardFixture{
		schools: map[int64]*models.School{},
		users:   map[int64]*models.User{},
		roles:   map[int64]*models.Role{},
	}
}

func (f *onboardFixture) CreateTx(_ context.Context, _ pgx.Tx, school *models.School) (int64, error) {
	f.nextID++
	clone := *school
	clone.ID = f.nextID
	clone.RegistrationStatus = models.RegistrationInProgress
	f.schools[clone.ID] = &clone
	return clone.ID, nil
}

func (f *onboardFixture) GetByID(_ context.Context, id int64) (*models.School, error) {
	school, ok := f.schools[id]
	if !ok {
		return nil, apperrors.ErrSchoolNotFound
	}
	clone := *school
	return &clone, nil
}

func (f *onboardFixture) NameExists(_ context.Context, name string) (bool, error) {
	for _, s := range f.schools {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *onboardFixture) UpdateRegistrationStatus(_ context.Context, id int64, status models.RegistrationStatus) error {
	school, ok := f.schools[id]
	if !ok {
		return apperrors.ErrSchoolNotFound
	}
	school.RegistrationStatus = status
	return nil
}

func (f *onboardFixture) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	schools := map[int64]*models.School{}
	for k, v := range f.schools {
		schools[k] = v
	}
	users := map[int64]*models.User{}
	for k, v := range f.users {
		users[k] = v
	}
	roles := map[int64]*models.Role{}
	for k, v := range f.roles {
		roles[k] = v
	}

	if err := fn(ctx, nil); err != nil {
		f.schools, f.users, f.roles = schools, users, roles
		return err
	}
	return nil
}

func (f *onboardFixture) NotifyWelcome(toEmail, _, _ string) {
	f.welcomes = append(f.welcomes, toEmail)
}

// accountSide adapts the fixture to the user-account interface so the two
// CreateTx methods do not collide.
type accountSide struct{ f *onboardFixture }

func (a accountSide) CreateTx(_ context.Context, _ pgx.Tx, user *models.User) (int64, error) {
	if a.f.failUserCreate {
		return 0, errors.New("account insert failed")
	}
	a.f.nextID++
	clone := *user
	clone.ID = a.f.nextID
	a.f.users[clone.ID] = &clone
	return clone.ID, nil
}

func (a accountSide) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := a.f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (a accountSide) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range a.f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (a accountSide) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range a.f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type roleSide struct{ f *onboardFixture }

func (r roleSide) CreateTx(_ context.Context, _ pgx.Tx, role *models.Role) (int64, error) {
	r.f.nextID++
	clone := *role
	clone.ID = r.f.nextID
	r.f.roles[clone.ID] = &clone
	return clone.ID, nil
}

func onboardService(f *onboardFixture) SchoolService {
	return NewSchoolService(f, accountSide{f}, roleSide{f}, f, f)
}

func onboardRequest(name string) *dto.OnboardSchoolRequest {
	req := &dto.OnboardSchoolRequest{
		Name:          name,
		AddressLine1:  "2 College Road",
		City:          "Manchester",
		PostCode:      "M1 1AA",
		Country:       "UK",
		EmployeeCount: 25,
	}
	req.Admin.FirstName = "Ada"
	req.Admin.LastName = "Bell"
	req.Admin.Username = "ada.bell"
	req.Admin.Email = "ada@riverside.example"
	req.Admin.Password = "a-strong-password"
	return req
}

func TestOnboard(t *testing.T) {
	ctx := context.Background()

	t.Run("creates school, admin role and admin account", func(t *testing.T) {
		f := newOnboardFixture()
		svc := onboardService(f)

		school, admin, err := svc.Onboard(ctx, onboardRequest("Riverside College"))
		require.NoError(t, err)

		assert.Equal(t, "Riverside College", school.Name)
		assert.Equal(t, models.RegistrationInProgress, school.RegistrationStatus)
		assert.Equal(t, school.ID, admin.SchoolID)
		require.NotNil(t, admin.RoleID)

		role := f.roles[*admin.RoleID]
		require.NotNil(t, role)
		assert.Equal(t, "admin", role.Name)
		assert.Contains(t, role.Permissions, models.PermissionAssumeAnyRole)

		// password is stored hashed
		assert.NotEqual(t, "a-strong-password", f.users[admin.ID].Password)
		assert.Equal(t, []string{"ada@riverside.example"}, f.welcomes)
	})

	t.Run("duplicate school name", func(t *testing.T) {
		f := newOnboardFixture()
		svc := onboardService(f)

		_, _, err := svc.Onboard(ctx, onboardRequest("Riverside College"))
		require.NoError(t, err)

		_, _, err = svc.Onboard(ctx, onboardRequest("Riverside College"))
		assert.ErrorIs(t, err, apperrors.ErrSchoolAlreadyExists)
	})

	t.Run("a failed step leaves nothing behind", func(t *testing.T) {
		f := newOnboardFixture()
		f.failUserCreate = true
		svc := onboardService(f)

		_, _, err := svc.Onboard(ctx, onboardRequest("Riverside College"))
		require.Error(t, err)

		assert.Empty(t, f.schools)
		assert.Empty(t, f.roles)
		assert.Empty(t, f.users)
		assert.Empty(t, f.welcomes)
	})
}

func TestAdvanceRegistration(t *testing.T) {
	ctx := context.Background()
	f := newOnboardFixture()
	svc := onboardService(f)

	school, _, err := svc.Onboard(ctx, onboardRequest("Riverside College"))
	require.NoError(t, err)

	got, err := svc.AdvanceRegistration(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationVerified, got.RegistrationStatus)

	got, err = svc.AdvanceRegistration(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCompleted, got.RegistrationStatus)

	// completed is terminal
	got, err = svc.AdvanceRegistration(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCompleted, got.RegistrationStatus)
}
