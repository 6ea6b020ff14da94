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
)

// FormRepository handles database operations for form templates and
// submissions.
type FormRepository struct {
	db *pgxpool.Pool
}

// NewFormRepository creates a new FormRepository
func NewFormRepository(db *pgxpool.Pool) *FormRepository {
	return &FormRepository{db: db}
}

// CreateForm inserts a form template.
func (r *FormRepository) CreateForm(ctx context.Context, form *models.Form) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO forms (type, title, is_active, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		form.Type, form.Title, form.IsActive, form.Metadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating form: %w", err)
	}
	return id, nil
}

// GetActiveByType returns the active template of the given type.
func (r *FormRepository) GetActiveByType(ctx context.Context, formType models.FormType) (*models.Form, error) {
	form := &models.Form{}
	err := r.db.QueryRow(ctx, `
		SELECT id, type, title, is_active, metadata, created_at, updated_at
		FROM forms
		WHERE type = $1 AND is_active = TRUE
		ORDER BY id DESC
		LIMIT 1`, formType).Scan(
		&form.ID, &form.Type, &form.Title, &form.IsActive, &form.Metadata,
		&form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, err
	}
	return form, nil
}

// ListForms returns every form template.
func (r *FormRepository) ListForms(ctx context.Context) ([]*models.Form, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, type, title, is_active, metadata, created_at, updated_at
		FROM forms
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing forms: %w", err)
	}
	defer rows.Close()

	forms := make([]*models.Form, 0)
	for rows.Next() {
		form := &models.Form{}
		err := rows.Scan(
			&form.ID, &form.Type, &form.Title, &form.IsActive, &form.Metadata,
			&form.CreatedAt, &form.UpdatedAt)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// CreateSubmission starts a submission for a student.
func (r *FormRepository) CreateSubmission(ctx context.Context, sub *models.FormSubmission) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO form_submissions (form_id, student_id, status, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		sub.FormID, sub.StudentID, sub.Status, sub.Data).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating form submission: %w", err)
	}
	return id, nil
}

func scanSubmission(row pgx.Row) (*models.FormSubmission, error) {
	sub := &models.FormSubmission{}
	err := row.Scan(
		&sub.ID, &sub.FormID, &sub.StudentID, &sub.Status, &sub.Data,
		&sub.ReviewerID, &sub.ReviewComment, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// GetSubmission retrieves a submission, scoped to the student's school.
func (r *FormRepository) GetSubmission(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error) {
	row := r.db.QueryRow(ctx, `
		SELECT fs.id, fs.form_id, fs.student_id, fs.status, fs.data,
		       fs.reviewer_id, fs.review_comment, fs.created_at, fs.updated_at
		FROM form_submissions fs
		JOIN prospective_students ps ON ps.id = fs.student_id
		WHERE fs.id = $1 AND ps.school_id = $2`, id, schoolID)
	return scanSubmission(row)
}

// ListSubmissionsByStudent returns the submissions of one student.
func (r *FormRepository) ListSubmissionsByStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fs.id, fs.form_id, fs.student_id, fs.status, fs.data,
		       fs.reviewer_id, fs.review_comment, fs.created_at, fs.updated_at
		FROM form_submissions fs
		JOIN prospective_students ps ON ps.id = fs.student_id
		WHERE fs.student_id = $1 AND ps.school_id = $2
		ORDER BY fs.created_at DESC`, studentID, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]*models.FormSubmission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateSubmissionData replaces the answer document of a submission. The
// current status is part of the predicate so only the expected lifecycle
// state is writable.
func (r *FormRepository) UpdateSubmissionData(ctx context.Context, id int64, status models.FormStatus, data map[string]any) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE form_submissions
		SET data = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		data, time.Now(), id, status)
	if err != nil {
		return fmt.Errorf("failed to update submission data: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}

// UpdateSubmissionStatus advances a submission's lifecycle status. The set
// of statuses the transition is legal from is part of the predicate.
func (r *FormRepository) UpdateSubmissionStatus(ctx context.Context, id int64, from []models.FormStatus, to models.FormStatus, reviewerID *int64, comment *string) error {
	froms := make([]string, 0, len(from))
	for _, f := range from {
		froms = append(froms, string(f))
	}
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE form_submissions
		SET status = $1, reviewer_id = COALESCE($2, reviewer_id),
		    review_comment = COALESCE($3, review_comment), updated_at = $4
		WHERE id = $5 AND status = ANY($6)`,
		to, reviewerID, comment, time.Now(), id, froms)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}
