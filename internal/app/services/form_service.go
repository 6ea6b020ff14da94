package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

// FormStore is the persistence surface for form templates and submissions.
type FormStore interface {
	CreateForm(ctx context.Context, form *models.Form) (int64, error)
	GetActiveByType(ctx context.Context, formType models.FormType) (*models.Form, error)
	ListForms(ctx context.Context) ([]*models.Form, error)
	CreateSubmission(ctx context.Context, sub *models.FormSubmission) (int64, error)
	GetSubmission(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error)
	ListSubmissionsByStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error)
	UpdateSubmissionData(ctx context.Context, id int64, status models.FormStatus, data map[string]any) error
	UpdateSubmissionStatus(ctx context.Context, id int64, from []models.FormStatus, to models.FormStatus, reviewerID *int64, comment *string) error
}

// StudentLookup verifies that a student exists within the caller's school.
type StudentLookup interface {
	GetByID(ctx context.Context, schoolID, id int64, gate *models.Gate) (*models.ProspectiveStudent, error)
}

// FormService implements the form submission workflow:
// draft -> submitted -> under_review -> approved|rejected.
type FormService interface {
	ListForms(ctx context.Context) ([]*models.Form, error)
	CreateDraft(ctx context.Context, schoolID int64, req *dto.CreateDraftRequest) (*models.FormSubmission, error)
	UpdateDraft(ctx context.Context, schoolID, id int64, data map[string]any) (*models.FormSubmission, error)
	Submit(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error)
	SubmitForStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error)
	Review(ctx context.Context, schoolID, id, reviewerID int64, req *dto.ReviewSubmissionRequest) (*models.FormSubmission, error)
	GetSubmission(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error)
	ListByStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error)
}

type formServiceImpl struct {
	forms    FormStore
	students StudentLookup
}

// NewFormService creates a new form service instance
func NewFormService(forms FormStore, students StudentLookup) FormService {
	return &formServiceImpl{
		forms:    forms,
		students: students,
	}
}

// ListForms returns the available form templates.
func (s *formServiceImpl) ListForms(ctx context.Context) ([]*models.Form, error) {
	return s.forms.ListForms(ctx)
}

// CreateDraft starts a draft submission against the active template of the
// requested type. The student must belong to the caller's school.
func (s *formServiceImpl) CreateDraft(ctx context.Context, schoolID int64, req *dto.CreateDraftRequest) (*models.FormSubmission, error) {
	formType := models.FormType(req.FormType)
	switch formType {
	case models.FormTypeEnrollment, models.FormTypeInterview, models.FormTypeInduction, models.FormTypeDeclaration:
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown form type: %s", req.FormType))
	}

	form, err := s.forms.GetActiveByType(ctx, formType)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.GetByID(ctx, schoolID, req.StudentID, nil); err != nil {
		return nil, err
	}

	data := req.Data
	if data == nil {
		data = map[string]any{}
	}

	sub := &models.FormSubmission{
		FormID:    form.ID,
		StudentID: req.StudentID,
		Status:    models.FormStatusDraft,
		Data:      data,
	}
	id, err := s.forms.CreateSubmission(ctx, sub)
	if err != nil {
		return nil, err
	}

	return s.forms.GetSubmission(ctx, schoolID, id)
}

// mergeData shallow-merges incoming keys over the existing document.
// Untouched keys survive; colliding keys take the new value.
func mergeData(existing, incoming map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

// UpdateDraft merges new answers into a draft submission. Once a submission
// leaves draft it is no longer addressable here and reads as not found.
func (s *formServiceImpl) UpdateDraft(ctx context.Context, schoolID, id int64, data map[string]any) (*models.FormSubmission, error) {
	sub, err := s.forms.GetSubmission(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.FormStatusDraft {
		return nil, apperrors.ErrSubmissionNotFound
	}

	merged := mergeData(sub.Data, data)
	if err := s.forms.UpdateSubmissionData(ctx, id, models.FormStatusDraft, merged); err != nil {
		return nil, err
	}

	return s.forms.GetSubmission(ctx, schoolID, id)
}

// Submit hands a draft over for review.
func (s *formServiceImpl) Submit(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error) {
	if _, err := s.forms.GetSubmission(ctx, schoolID, id); err != nil {
		return nil, err
	}

	err := s.forms.UpdateSubmissionStatus(ctx, id,
		[]models.FormStatus{models.FormStatusDraft}, models.FormStatusSubmitted, nil, nil)
	if err != nil {
		if errors.Is(err, apperrors.ErrSubmissionNotFound) {
			return nil, apperrors.NewConflictError("submission is not a draft")
		}
		return nil, err
	}

	return s.forms.GetSubmission(ctx, schoolID, id)
}

// SubmitForStudent hands every draft of one student over for review in a
// single call. Submissions already past draft are left untouched.
func (s *formServiceImpl) SubmitForStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error) {
	if _, err := s.students.GetByID(ctx, schoolID, studentID, nil); err != nil {
		return nil, err
	}

	subs, err := s.forms.ListSubmissionsByStudent(ctx, schoolID, studentID)
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		if sub.Status != models.FormStatusDraft {
			continue
		}
		err := s.forms.UpdateSubmissionStatus(ctx, sub.ID,
			[]models.FormStatus{models.FormStatusDraft}, models.FormStatusSubmitted, nil, nil)
		if err != nil && !errors.Is(err, apperrors.ErrSubmissionNotFound) {
			return nil, err
		}
	}

	return s.forms.ListSubmissionsByStudent(ctx, schoolID, studentID)
}

// Review records the reviewer's decision on a submitted form. Only
// submissions currently in the submitted state are addressable; any other
// state reads as not found.
func (s *formServiceImpl) Review(ctx context.Context, schoolID, id, reviewerID int64, req *dto.ReviewSubmissionRequest) (*models.FormSubmission, error) {
	status := models.FormStatus(req.Status)
	switch status {
	case models.FormStatusApproved, models.FormStatusRejected, models.FormStatusUnderReview:
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid review status: %s", req.Status))
	}

	if _, err := s.forms.GetSubmission(ctx, schoolID, id); err != nil {
		return nil, err
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	err := s.forms.UpdateSubmissionStatus(ctx, id,
		[]models.FormStatus{models.FormStatusSubmitted},
		status, &reviewerID, comment)
	if err != nil {
		return nil, err
	}

	return s.forms.GetSubmission(ctx, schoolID, id)
}

// GetSubmission returns one submission scoped to the caller's school.
func (s *formServiceImpl) GetSubmission(ctx context.Context, schoolID, id int64) (*models.FormSubmission, error) {
	return s.forms.GetSubmission(ctx, schoolID, id)
}

// ListByStudent returns the submissions of one student.
func (s *formServiceImpl) ListByStudent(ctx context.Context, schoolID, studentID int64) ([]*models.FormSubmission, error) {
	if _, err := s.students.GetByID(ctx, schoolID, studentID, nil); err != nil {
		return nil, err
	}
	return s.forms.ListSubmissionsByStudent(ctx, schoolID, studentID)
}
