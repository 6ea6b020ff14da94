package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/helpers"
	"github.com/audease/audease-backend/internal/pkg/logger"
	"github.com/audease/audease-backend/internal/pkg/validation"
)

// StudentStore is the persistence surface the stage workflow needs.
type StudentStore interface {
	Create(ctx context.Context, student *models.ProspectiveStudent) (int64, error)
	GetByID(ctx context.Context, schoolID, id int64, gate *models.Gate) (*models.ProspectiveStudent, error)
	List(ctx context.Context, schoolID int64, gate *models.Gate, params dto.StudentListQuery) ([]*models.ProspectiveStudent, int64, error)
	Update(ctx context.Context, student *models.ProspectiveStudent) error
	UpdateStatus(ctx context.Context, upd repositories.StatusUpdate) error
}

// Notifier delivers workflow emails without blocking the request.
type Notifier interface {
	NotifySubmitted(toEmail, studentName string)
	NotifyApproved(toEmail, studentName, stageName string)
	NotifyRejected(toEmail, studentName, stageName string)
}

// StageService implements the stage dashboards of the approval pipeline.
// Every operation is scoped to one school and one stage; the stage's gate
// is applied to reads and re-checked inside decision writes.
type StageService interface {
	CreateStudent(ctx context.Context, schoolID, recruiterID int64, req *dto.CreateStudentRequest) (*models.ProspectiveStudent, error)
	ListStudents(ctx context.Context, schoolID int64, stage models.Stage, params dto.StudentListQuery) ([]*models.ProspectiveStudent, int64, error)
	GetStudent(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error)
	UpdateStudent(ctx context.Context, schoolID int64, stage models.Stage, id int64, req *dto.UpdateStudentRequest) (*models.ProspectiveStudent, error)
	Approve(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error)
	Reject(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error)
}

type stageServiceImpl struct {
	students StudentStore
	notifier Notifier
}

// NewStageService creates a new stage service instance
func NewStageService(students StudentStore, notifier Notifier) StageService {
	return &stageServiceImpl{
		students: students,
		notifier: notifier,
	}
}

// validateStudent validates intake data before database operations
func validateStudent(req *dto.CreateStudentRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidPostCode(req.PostCode) {
		return fmt.Errorf("%w: invalid postcode", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidNINumber(req.NINumber) {
		return fmt.Errorf("%w: invalid National Insurance number", apperrors.ErrValidationFailed)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateStudent records a new prospective student on the recruiter
// dashboard. All workflow statuses start at their initial values.
func (s *stageServiceImpl) CreateStudent(ctx context.Context, schoolID, recruiterID int64, req *dto.CreateStudentRequest) (*models.ProspectiveStudent, error) {
	if err := validateStudent(req); err != nil {
		return nil, err
	}

	student := &models.ProspectiveStudent{
		SchoolID:       schoolID,
		RecruiterID:    recruiterID,
		FirstName:      strings.TrimSpace(req.FirstName),
		MiddleName:     optional(strings.TrimSpace(req.MiddleName)),
		LastName:       strings.TrimSpace(req.LastName),
		DateOfBirth:    helpers.ParseDate(req.DateOfBirth),
		Mobile:         req.Mobile,
		Email:          req.Email,
		NINumber:       optional(req.NINumber),
		PassportNumber: optional(req.PassportNumber),
		AddressLine1:   req.AddressLine1,
		City:           req.City,
		PostCode:       req.PostCode,
		Funding:        req.Funding,
		Level:          req.Level,
		Awarding:       req.Awarding,
		ChosenCourse:   req.ChosenCourse,
	}

	id, err := s.students.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, schoolID, id, nil)
}

// ListStudents returns the page of records visible to one stage dashboard.
func (s *stageServiceImpl) ListStudents(ctx context.Context, schoolID int64, stage models.Stage, params dto.StudentListQuery) ([]*models.ProspectiveStudent, int64, error) {
	def, ok := models.DefinitionFor(stage)
	if !ok {
		return nil, 0, apperrors.ErrUnknownStage
	}
	return s.students.List(ctx, schoolID, def.Gate, params)
}

// GetStudent returns one record if the stage's gate admits it.
func (s *stageServiceImpl) GetStudent(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error) {
	def, ok := models.DefinitionFor(stage)
	if !ok {
		return nil, apperrors.ErrUnknownStage
	}
	return s.students.GetByID(ctx, schoolID, id, def.Gate)
}

// UpdateStudent rewrites the editable fields of a record the stage can see.
func (s *stageServiceImpl) UpdateStudent(ctx context.Context, schoolID int64, stage models.Stage, id int64, req *dto.UpdateStudentRequest) (*models.ProspectiveStudent, error) {
	def, ok := models.DefinitionFor(stage)
	if !ok {
		return nil, apperrors.ErrUnknownStage
	}

	student, err := s.students.GetByID(ctx, schoolID, id, def.Gate)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.MiddleName != "" {
		student.MiddleName = optional(req.MiddleName)
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.Mobile != "" {
		student.Mobile = req.Mobile
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	if req.AddressLine1 != "" {
		student.AddressLine1 = req.AddressLine1
	}
	if req.City != "" {
		student.City = req.City
	}
	if req.PostCode != "" {
		if !validation.IsValidPostCode(req.PostCode) {
			return nil, fmt.Errorf("%w: invalid postcode", apperrors.ErrValidationFailed)
		}
		student.PostCode = req.PostCode
	}
	if req.Funding != "" {
		student.Funding = req.Funding
	}
	if req.Level != "" {
		student.Level = req.Level
	}
	if req.Awarding != "" {
		student.Awarding = req.Awarding
	}
	if req.ChosenCourse != "" {
		student.ChosenCourse = req.ChosenCourse
	}
	if req.AttendanceStatus != "" {
		switch models.AttendanceStatus(req.AttendanceStatus) {
		case models.AttendancePresent, models.AttendanceAbsent:
			student.AttendanceStatus = models.AttendanceStatus(req.AttendanceStatus)
		default:
			return nil, fmt.Errorf("%w: invalid attendance status", apperrors.ErrValidationFailed)
		}
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, schoolID, id, def.Gate)
}

// Approve applies the stage's approve transition to a record. The gate and
// the record version travel into the UPDATE predicate, so a concurrent
// decision on the same record loses with a stale-record error.
func (s *stageServiceImpl) Approve(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error) {
	def, ok := models.DefinitionFor(stage)
	if !ok {
		return nil, apperrors.ErrUnknownStage
	}
	if !def.CanApprove() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("stage %s has no approve action", stage))
	}

	student, err := s.students.GetByID(ctx, schoolID, id, def.Gate)
	if err != nil {
		return nil, err
	}

	upd := repositories.StatusUpdate{
		SchoolID:  schoolID,
		StudentID: id,
		Version:   student.Version,
		Gate:      def.Gate,
		SetField:  def.ApproveField,
		SetValue:  def.ApproveValue,
	}
	if err := s.students.UpdateStatus(ctx, upd); err != nil {
		return nil, err
	}

	if def.NotifyOnApprove && s.notifier != nil {
		if stage == models.StageRecruiter {
			s.notifier.NotifySubmitted(student.Email, student.FullName())
		} else {
			s.notifier.NotifyApproved(student.Email, student.FullName(), strings.ToLower(string(stage)))
		}
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Int64("studentID", id).
		Str("stage", string(stage)).
		Str("field", string(def.ApproveField)).
		Str("value", def.ApproveValue).
		Msg("Stage approval applied")

	return s.students.GetByID(ctx, schoolID, id, nil)
}

// Reject applies the stage's reject transition to a record.
func (s *stageServiceImpl) Reject(ctx context.Context, schoolID int64, stage models.Stage, id int64) (*models.ProspectiveStudent, error) {
	def, ok := models.DefinitionFor(stage)
	if !ok {
		return nil, apperrors.ErrUnknownStage
	}
	if !def.CanReject() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("stage %s has no reject action", stage))
	}

	student, err := s.students.GetByID(ctx, schoolID, id, def.Gate)
	if err != nil {
		return nil, err
	}

	upd := repositories.StatusUpdate{
		SchoolID:  schoolID,
		StudentID: id,
		Version:   student.Version,
		Gate:      def.Gate,
		SetField:  def.RejectField,
		SetValue:  def.RejectValue,
	}
	if err := s.students.UpdateStatus(ctx, upd); err != nil {
		return nil, err
	}

	if def.NotifyOnReject && s.notifier != nil {
		s.notifier.NotifyRejected(student.Email, student.FullName(), strings.ToLower(string(stage)))
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Int64("studentID", id).
		Str("stage", string(stage)).
		Str("field", string(def.RejectField)).
		Str("value", def.RejectValue).
		Msg("Stage rejection applied")

	return s.students.GetByID(ctx, schoolID, id, nil)
}
