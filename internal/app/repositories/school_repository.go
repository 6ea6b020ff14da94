package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/dberrors"
)

const schoolColumns = `id, name, address_line1, address_line2, city, post_code, country,
		employee_count, registration_status, created_at, updated_at`

// SchoolRepository handles database operations for tenant schools.
type SchoolRepository struct {
	db *pgxpool.Pool
}

// NewSchoolRepository creates a new SchoolRepository
func NewSchoolRepository(db *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{db: db}
}

func scanSchool(row pgx.Row) (*models.School, error) {
	school := &models.School{}
	err := row.Scan(
		&school.ID, &school.Name, &school.AddressLine1, &school.AddressLine2,
		&school.City, &school.PostCode, &school.Country,
		&school.EmployeeCount, &school.RegistrationStatus,
		&school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, err
	}
	return school, nil
}

// CreateTx inserts a new school within an existing transaction. Onboarding
// creates the school and its admin account atomically.
func (r *SchoolRepository) CreateTx(ctx context.Context, tx pgx.Tx, school *models.School) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO schools (name, address_line1, address_line2, city, post_code, country, employee_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		school.Name, school.AddressLine1, school.AddressLine2,
		school.City, school.PostCode, school.Country, school.EmployeeCount).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrSchoolAlreadyExists
		}
		return 0, fmt.Errorf("error creating school: %w", err)
	}
	return id, nil
}

// GetByID retrieves a school by ID
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+schoolColumns+`
		FROM schools
		WHERE id = $1`, id)
	return scanSchool(row)
}

// NameExists checks if a school name is already registered
func (r *SchoolRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM schools WHERE LOWER(name) = LOWER($1))`,
		name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking school name: %w", err)
	}
	return exists, nil
}

// UpdateRegistrationStatus advances the onboarding status of a school.
func (r *SchoolRepository) UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE schools
		SET registration_status = $1, updated_at = $2
		WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}
	return nil
}

// Update rewrites the school profile fields.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE schools
		SET address_line1 = $1, address_line2 = $2, city = $3, post_code = $4,
		    country = $5, employee_count = $6, updated_at = $7
		WHERE id = $8`,
		school.AddressLine1, school.AddressLine2, school.City, school.PostCode,
		school.Country, school.EmployeeCount, time.Now(), school.ID)
	if err != nil {
		return fmt.Errorf("failed to update school: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}
	return nil
}
