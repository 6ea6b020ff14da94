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
	"github.com/audease/audease-backend/internal/pkg/helpers"
)

// RoleRepository handles database operations for roles and permissions.
type RoleRepository struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a role with its permission grants. The two inserts run in
// one transaction so a role never exists half-granted.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := r.CreateTx(ctx, tx, role)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// CreateTx inserts a role with its grants within an existing transaction.
func (r *RoleRepository) CreateTx(ctx context.Context, tx pgx.Tx, role *models.Role) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO roles (school_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		role.SchoolID, role.Name, role.Description).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrRoleAlreadyExists
		}
		return 0, fmt.Errorf("error creating role: %w", err)
	}

	for _, perm := range role.Permissions {
		cmdTag, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, id FROM permissions WHERE name = $2`,
			id, perm)
		if err != nil {
			return 0, fmt.Errorf("error granting permission %q: %w", perm, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return 0, apperrors.NewBadRequestError(fmt.Sprintf("unknown permission: %s", perm))
		}
	}

	return id, nil
}

// GetByID retrieves a role with its permissions, scoped to a school.
func (r *RoleRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.QueryRow(ctx, `
		SELECT id, school_id, name, description, is_archived, archived_at, archived_by, archive_reason
		FROM roles
		WHERE id = $1 AND school_id = $2`,
		id, schoolID).Scan(
		&role.ID, &role.SchoolID, &role.Name, &role.Description,
		&role.IsArchived, &role.ArchivedAt, &role.ArchivedBy, &role.ArchiveReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, err
	}

	perms, err := r.permissionsForRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms

	return role, nil
}

// ListBySchool retrieves the roles of a school. Archived roles are included
// only when requested.
func (r *RoleRepository) ListBySchool(ctx context.Context, schoolID int64, includeArchived bool) ([]*models.Role, error) {
	query := `
		SELECT id, school_id, name, description, is_archived, archived_at, archived_by, archive_reason
		FROM roles
		WHERE school_id = $1`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	defer rows.Close()

	roles := make([]*models.Role, 0)
	for rows.Next() {
		role := &models.Role{}
		err := rows.Scan(
			&role.ID, &role.SchoolID, &role.Name, &role.Description,
			&role.IsArchived, &role.ArchivedAt, &role.ArchivedBy, &role.ArchiveReason)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, role := range roles {
		perms, err := r.permissionsForRole(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		role.Permissions = perms
	}

	return roles, nil
}

func (r *RoleRepository) permissionsForRole(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.name`, roleID)
	if err != nil {
		return nil, fmt.Errorf("error loading role permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, name)
	}
	return perms, rows.Err()
}

// GetPermissionsForUser resolves the permission names a user currently
// holds. An unknown user is ErrUserNotFound; a user without a role, or
// whose role is archived, has an empty set.
func (r *RoleRepository) GetPermissionsForUser(ctx context.Context, userID int64) ([]string, error) {
	var roleID *int64
	err := r.db.QueryRow(ctx, `SELECT role_id FROM users WHERE id = $1`, userID).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}
	if roleID == nil {
		return []string{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.name
		FROM roles r
		JOIN role_permissions rp ON rp.role_id = r.id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE r.id = $1 AND r.is_archived = FALSE`, *roleID)
	if err != nil {
		return nil, fmt.Errorf("error resolving user permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, name)
	}
	return perms, rows.Err()
}

// Archive soft-removes a role; accounts holding it lose its grants until it
// is restored.
func (r *RoleRepository) Archive(ctx context.Context, schoolID, id, archivedBy int64, reason string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE roles
		SET is_archived = TRUE, archived_at = $1, archived_by = $2, archive_reason = $3
		WHERE id = $4 AND school_id = $5 AND is_archived = FALSE`,
		time.Now(), archivedBy, helpers.GetContentNullString(reason), id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to archive role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRoleNotFound
	}
	return nil
}

// Unarchive restores an archived role and its grants.
func (r *RoleRepository) Unarchive(ctx context.Context, schoolID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE roles
		SET is_archived = FALSE, archived_at = NULL, archived_by = NULL, archive_reason = NULL
		WHERE id = $1 AND school_id = $2 AND is_archived = TRUE`,
		id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to unarchive role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRoleNotFound
	}
	return nil
}

// EnsurePermission inserts a permission name if it is not already present.
// The seed step calls this for every catalog entry at startup.
func (r *RoleRepository) EnsurePermission(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO permissions (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to ensure permission %q: %w", name, err)
	}
	return nil
}

// ListPermissions returns the full permission catalog.
func (r *RoleRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM permissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]models.Permission, 0)
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
