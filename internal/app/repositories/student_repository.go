package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/helpers"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// studentColumns is the column list every student select shares.
var studentColumns = []string{
	"id", "school_id", "recruiter_id",
	"first_name", "middle_name", "last_name", "date_of_birth",
	"mobile", "email", "ni_number", "passport_number",
	"address_line1", "city", "post_code",
	"funding", "level", "awarding", "chosen_course",
	"application_mail", "application_status", "inductor_status",
	"lazer_status", "certificate_status", "attendance_status",
	"stage", "is_archived", "archived_at", "archived_by", "archive_reason",
	"version", "created_at", "updated_at",
}

// StatusUpdate describes one stage decision against a student record.
// The gate and version are re-checked inside the UPDATE statement itself so
// a concurrent decision cannot silently overwrite this one.
type StatusUpdate struct {
	SchoolID  int64
	StudentID int64
	Version   int64
	Gate      *models.Gate
	SetField  models.StatusField
	SetValue  string
}

// StudentRepository handles database operations for prospective students.
type StudentRepository struct {
	DB *pgxpool.Pool
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) selectStudentsQuery() squirrel.SelectBuilder {
	return squirrel.Select(studentColumns...).
		From("prospective_students").
		PlaceholderFormat(squirrel.Dollar)
}

// scanStudent scans a row into a ProspectiveStudent struct.
func scanStudent(row pgx.Row) (*models.ProspectiveStudent, error) {
	var s models.ProspectiveStudent
	err := row.Scan(
		&s.ID, &s.SchoolID, &s.RecruiterID,
		&s.FirstName, &s.MiddleName, &s.LastName, &s.DateOfBirth,
		&s.Mobile, &s.Email, &s.NINumber, &s.PassportNumber,
		&s.AddressLine1, &s.City, &s.PostCode,
		&s.Funding, &s.Level, &s.Awarding, &s.ChosenCourse,
		&s.ApplicationMail, &s.ApplicationStatus, &s.InductorStatus,
		&s.LazerStatus, &s.CertificateStatus, &s.AttendanceStatus,
		&s.Stage, &s.IsArchived, &s.ArchivedAt, &s.ArchivedBy, &s.ArchiveReason,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning prospective student")
		return nil, err
	}
	return &s, nil
}

// Create inserts a new prospective student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.ProspectiveStudent) (int64, error) {
	sqlStr, args, err := squirrel.Insert("prospective_students").
		Columns(
			"school_id", "recruiter_id",
			"first_name", "middle_name", "last_name", "date_of_birth",
			"mobile", "email", "ni_number", "passport_number",
			"address_line1", "city", "post_code",
			"funding", "level", "awarding", "chosen_course",
			"stage",
		).
		Values(
			student.SchoolID, student.RecruiterID,
			student.FirstName, student.MiddleName, student.LastName, student.DateOfBirth,
			student.Mobile, student.Email, student.NINumber, student.PassportNumber,
			student.AddressLine1, student.City, student.PostCode,
			student.Funding, student.Level, student.Awarding, student.ChosenCourse,
			models.StageRecruiter,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, err
	}

	var id int64
	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a single student within a school. A non-nil gate narrows
// visibility to records whose upstream status matches.
func (r *StudentRepository) GetByID(ctx context.Context, schoolID, id int64, gate *models.Gate) (*models.ProspectiveStudent, error) {
	sqlBuilder := r.selectStudentsQuery().
		Where(squirrel.Eq{"id": id, "school_id": schoolID, "is_archived": false})
	if gate != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{string(gate.Field): gate.Value})
	}

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, err
	}

	row := r.DB.QueryRow(ctx, sqlStr, args...)
	return scanStudent(row)
}

// List retrieves a paginated, filtered set of students visible to one stage
// of one school. Returns the page of records plus the unpaginated total.
func (r *StudentRepository) List(ctx context.Context, schoolID int64, gate *models.Gate, params dto.StudentListQuery) ([]*models.ProspectiveStudent, int64, error) {
	base := squirrel.And{
		squirrel.Eq{"school_id": schoolID, "is_archived": false},
	}
	if gate != nil {
		base = append(base, squirrel.Eq{string(gate.Field): gate.Value})
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		base = append(base, squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"middle_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if params.Funding != "" {
		base = append(base, squirrel.Eq{"funding": params.Funding})
	}
	if params.ChosenCourse != "" {
		base = append(base, squirrel.Eq{"chosen_course": params.ChosenCourse})
	}
	if params.ApplicationStatus != "" {
		base = append(base, squirrel.Eq{"application_status": params.ApplicationStatus})
	}

	countSql, countArgs, err := squirrel.Select("count(*)").
		From("prospective_students").
		Where(base).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return nil, 0, err
	}

	var total int64
	err = r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&total)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, 0, err
	}

	if total == 0 {
		return []*models.ProspectiveStudent{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Limit)
	sqlStr, args, err := r.selectStudentsQuery().
		Where(base).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, err
	}
	defer rows.Close()

	students := make([]*models.ProspectiveStudent, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one student during list")
			continue
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating student rows")
		return nil, 0, fmt.Errorf("database iteration error: %w", err)
	}

	return students, total, nil
}

// Update rewrites the editable personal and program fields of a record.
func (r *StudentRepository) Update(ctx context.Context, student *models.ProspectiveStudent) error {
	sqlStr, args, err := squirrel.Update("prospective_students").
		Set("first_name", student.FirstName).
		Set("middle_name", student.MiddleName).
		Set("last_name", student.LastName).
		Set("mobile", student.Mobile).
		Set("email", student.Email).
		Set("address_line1", student.AddressLine1).
		Set("city", student.City).
		Set("post_code", student.PostCode).
		Set("funding", student.Funding).
		Set("level", student.Level).
		Set("awarding", student.Awarding).
		Set("chosen_course", student.ChosenCourse).
		Set("attendance_status", student.AttendanceStatus).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": student.ID, "school_id": student.SchoolID, "is_archived": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update student query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateStatus applies one stage decision. The WHERE clause re-checks the
// gate and the version, so the update affects zero rows when the record is
// invisible to the stage or was modified since it was read.
func (r *StudentRepository) UpdateStatus(ctx context.Context, upd StatusUpdate) error {
	where := squirrel.And{
		squirrel.Eq{
			"id":          upd.StudentID,
			"school_id":   upd.SchoolID,
			"is_archived": false,
			"version":     upd.Version,
		},
	}
	if upd.Gate != nil {
		where = append(where, squirrel.Eq{string(upd.Gate.Field): upd.Gate.Value})
	}

	sqlStr, args, err := squirrel.Update("prospective_students").
		Set(string(upd.SetField), upd.SetValue).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now()).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building status update SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing status update query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, upd)
	}

	return nil
}

// classifyMiss distinguishes a stale version from a record the stage cannot
// see at all, after a zero-row status update.
func (r *StudentRepository) classifyMiss(ctx context.Context, upd StatusUpdate) error {
	where := squirrel.And{
		squirrel.Eq{"id": upd.StudentID, "school_id": upd.SchoolID, "is_archived": false},
	}
	if upd.Gate != nil {
		where = append(where, squirrel.Eq{string(upd.Gate.Field): upd.Gate.Value})
	}

	sqlStr, args, err := squirrel.Select("count(*)").
		From("prospective_students").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var n int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return apperrors.ErrStaleRecord
	}
	return apperrors.ErrStudentNotFound
}

// MoveStage relocates a record from one stage dashboard to another as a
// single row mutation. The source stage is part of the predicate, so a
// concurrent move of the same record wins at most once.
func (r *StudentRepository) MoveStage(ctx context.Context, schoolID, id int64, from, to models.Stage) error {
	sqlStr, args, err := squirrel.Update("prospective_students").
		Set("stage", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "school_id": schoolID, "stage": from, "is_archived": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building move stage SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing move stage query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// CountByStage returns the number of active records sitting on each stage
// dashboard of a school.
func (r *StudentRepository) CountByStage(ctx context.Context, schoolID int64) (map[models.Stage]int64, error) {
	sqlStr, args, err := squirrel.Select("stage", "count(*)").
		From("prospective_students").
		Where(squirrel.Eq{"school_id": schoolID, "is_archived": false}).
		GroupBy("stage").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count by stage SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count by stage query")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Stage]int64)
	for rows.Next() {
		var stage models.Stage
		var n int64
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[stage] = n
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// Archive soft-removes a student record from all stage dashboards.
func (r *StudentRepository) Archive(ctx context.Context, schoolID, id, archivedBy int64, reason string) error {
	sqlStr, args, err := squirrel.Update("prospective_students").
		Set("is_archived", true).
		Set("archived_at", time.Now()).
		Set("archived_by", archivedBy).
		Set("archive_reason", helpers.GetContentNullString(reason)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "school_id": schoolID, "is_archived": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building archive student SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing archive student query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Unarchive restores an archived record to the dashboards, clearing the
// archive metadata. The workflow statuses are untouched.
func (r *StudentRepository) Unarchive(ctx context.Context, schoolID, id int64) error {
	sqlStr, args, err := squirrel.Update("prospective_students").
		Set("is_archived", false).
		Set("archived_at", nil).
		Set("archived_by", nil).
		Set("archive_reason", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "school_id": schoolID, "is_archived": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building unarchive student SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing unarchive student query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ListArchived retrieves a paginated set of archived records for a school,
// optionally bounded by archive date.
func (r *StudentRepository) ListArchived(ctx context.Context, schoolID int64, params dto.ArchivedListQuery) ([]*models.ProspectiveStudent, int64, error) {
	base := squirrel.And{
		squirrel.Eq{"school_id": schoolID, "is_archived": true},
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		base = append(base, squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"middle_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if from := helpers.ParseDate(params.ArchivedFrom); from != nil {
		base = append(base, squirrel.GtOrEq{"archived_at": *from})
	}
	if to := helpers.ParseDate(params.ArchivedTo); to != nil {
		// inclusive upper bound: everything archived before the next day
		base = append(base, squirrel.Lt{"archived_at": to.Add(24 * time.Hour)})
	}

	countSql, countArgs, err := squirrel.Select("count(*)").
		From("prospective_students").
		Where(base).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count archived SQL")
		return nil, 0, err
	}

	var total int64
	err = r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&total)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count archived query")
		return nil, 0, err
	}

	if total == 0 {
		return []*models.ProspectiveStudent{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Limit)
	sqlStr, args, err := r.selectStudentsQuery().
		Where(base).
		OrderBy("archived_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list archived SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list archived query")
		return nil, 0, err
	}
	defer rows.Close()

	students := make([]*models.ProspectiveStudent, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one archived student")
			continue
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database iteration error: %w", err)
	}

	return students, total, nil
}
