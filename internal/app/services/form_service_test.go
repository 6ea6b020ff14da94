package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

type fakeFormStore struct {
	nextID      int64
	forms       map[models.FormType]*models.Form
	submissions map[int64]*models.FormSubmission
}

func newFakeFormStore() *fakeFormStore {
	store := &fakeFormStore{
		forms:       map[models.FormType]*models.Form{},
		submissions: map[int64]*models.FormSubmission{},
	}
	for i, ft := range []models.FormType{
		models.FormTypeEnrollment,
		models.FormTypeInterview,
		models.FormTypeInduction,
		models.FormTypeDeclaration,
	} {
		store.forms[ft] = &models.Form{ID: int64(i + 1), Type: ft, IsActive: true}
	}
	return store
}

func (f *fakeFormStore) CreateForm(_ context.Context, form *models.Form) (int64, error) {
	f.nextID++
	form.ID = f.nextID
	f.forms[form.Type] = form
	return form.ID, nil
}

func (f *fakeFormStore) GetActiveByType(_ context.Context, formType models.FormType) (*models.Form, error) {
	form, ok := f.forms[formType]
	if !ok {
		return nil, apperrors.ErrFormNotFound
	}
	return form, nil
}

func (f *fakeFormStore) ListForms(_ context.Context) ([]*models.Form, error) {
	out := make([]*models.Form, 0, len(f.forms))
	for _, form := range f.forms {
		out = append(out, form)
	}
	return out, nil
}

func (f *fakeFormStore) CreateSubmission(_ context.Context, sub *models.FormSubmission) (int64, error) {
	f.nextID++
	clone := *sub
	clone.ID = f.nextID
	f.submissions[clone.ID] = &clone
	return clone.ID, nil
}

func (f *fakeFormStore) GetSubmission(_ context.Context, _, id int64) (*models.FormSubmission, error) {
	sub, ok := f.submissions[id]
	if !ok {
		return nil, apperrors.ErrSubmissionNotFound
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeFormStore) ListSubmissionsByStudent(_ context.Context, _, studentID int64) ([]*models.FormSubmission, error) {
	var out []*models.FormSubmission
	for _, sub := range f.submissions {
		if sub.StudentID == studentID {
			clone := *sub
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeFormStore) UpdateSubmissionData(_ context.Context, id int64, status models.FormStatus, data map[string]any) error {
	sub, ok := f.submissions[id]
	if !ok || sub.Status != status {
		return apperrors.ErrSubmissionNotFound
	}
	sub.Data = data
	return nil
}

func (f *fakeFormStore) UpdateSubmissionStatus(_ context.Context, id int64, from []models.FormStatus, to models.FormStatus, reviewerID *int64, comment *string) error {
	sub, ok := f.submissions[id]
	if !ok {
		return apperrors.ErrSubmissionNotFound
	}
	allowed := false
	for _, s := range from {
		if sub.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return apperrors.ErrSubmissionNotFound
	}
	sub.Status = to
	sub.ReviewerID = reviewerID
	sub.ReviewComment = comment
	return nil
}

// fakeLookup admits one hardcoded student per school.
type fakeLookup struct {
	schoolID  int64
	studentID int64
}

func (f *fakeLookup) GetByID(_ context.Context, schoolID, id int64, _ *models.Gate) (*models.ProspectiveStudent, error) {
	if schoolID != f.schoolID || id != f.studentID {
		return nil, apperrors.ErrStudentNotFound
	}
	return &models.ProspectiveStudent{ID: id, SchoolID: schoolID}, nil
}

func TestCreateDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft against the active template", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

		sub, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
			FormType:  string(models.FormTypeEnrollment),
			StudentID: 7,
			Data:      map[string]any{"q1": "yes"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.FormStatusDraft, sub.Status)
		assert.Equal(t, "yes", sub.Data["q1"])
	})

	t.Run("nil data becomes an empty document", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

		sub, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
			FormType:  string(models.FormTypeInterview),
			StudentID: 7,
		})
		require.NoError(t, err)
		assert.NotNil(t, sub.Data)
		assert.Empty(t, sub.Data)
	})

	t.Run("rejects unknown form type", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

		_, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{FormType: "exit_survey", StudentID: 7})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects a student from another school", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 2, studentID: 7})

		_, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
			FormType:  string(models.FormTypeEnrollment),
			StudentID: 7,
		})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()

	newDraft := func(t *testing.T, svc FormService) *models.FormSubmission {
		t.Helper()
		sub, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
			FormType:  string(models.FormTypeEnrollment),
			StudentID: 7,
			Data:      map[string]any{"a": 1.0},
		})
		require.NoError(t, err)
		return sub
	}

	t.Run("merges keys over the existing document", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})
		sub := newDraft(t, svc)

		updated, err := svc.UpdateDraft(ctx, 1, sub.ID, map[string]any{"b": 2.0})
		require.NoError(t, err)
		assert.Equal(t, 1.0, updated.Data["a"])
		assert.Equal(t, 2.0, updated.Data["b"])

		updated, err = svc.UpdateDraft(ctx, 1, sub.ID, map[string]any{"a": 9.0})
		require.NoError(t, err)
		assert.Equal(t, 9.0, updated.Data["a"])
		assert.Equal(t, 2.0, updated.Data["b"])
	})

	t.Run("submitted forms read as not found", func(t *testing.T) {
		store := newFakeFormStore()
		svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})
		sub := newDraft(t, svc)

		_, err := svc.Submit(ctx, 1, sub.ID)
		require.NoError(t, err)

		_, err = svc.UpdateDraft(ctx, 1, sub.ID, map[string]any{"late": true})
		assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
	})
}

func TestSubmitAndReview(t *testing.T) {
	ctx := context.Background()
	store := newFakeFormStore()
	svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

	sub, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
		FormType:  string(models.FormTypeInduction),
		StudentID: 7,
	})
	require.NoError(t, err)

	t.Run("submit moves draft to submitted", func(t *testing.T) {
		got, err := svc.Submit(ctx, 1, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FormStatusSubmitted, got.Status)
	})

	t.Run("double submit conflicts", func(t *testing.T) {
		_, err := svc.Submit(ctx, 1, sub.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("review approves with reviewer and comment", func(t *testing.T) {
		got, err := svc.Review(ctx, 1, sub.ID, 42, &dto.ReviewSubmissionRequest{
			Status:  string(models.FormStatusApproved),
			Comment: "looks complete",
		})
		require.NoError(t, err)
		assert.Equal(t, models.FormStatusApproved, got.Status)
		require.NotNil(t, got.ReviewerID)
		assert.Equal(t, int64(42), *got.ReviewerID)
		require.NotNil(t, got.ReviewComment)
		assert.Equal(t, "looks complete", *got.ReviewComment)
	})

	t.Run("reviewing a decided submission reads as not found", func(t *testing.T) {
		_, err := svc.Review(ctx, 1, sub.ID, 42, &dto.ReviewSubmissionRequest{
			Status: string(models.FormStatusRejected),
		})
		assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
	})

	t.Run("invalid review status", func(t *testing.T) {
		_, err := svc.Review(ctx, 1, sub.ID, 42, &dto.ReviewSubmissionRequest{Status: "maybe"})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

// Parking a submission as under_review takes it out of the review queue;
// a second decision must go through submitted again, never from parked.
func TestReviewOnlyFromSubmitted(t *testing.T) {
	ctx := context.Background()
	store := newFakeFormStore()
	svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

	sub, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
		FormType:  string(models.FormTypeDeclaration),
		StudentID: 7,
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, sub.ID)
	require.NoError(t, err)

	parked, err := svc.Review(ctx, 1, sub.ID, 42, &dto.ReviewSubmissionRequest{
		Status: string(models.FormStatusUnderReview),
	})
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusUnderReview, parked.Status)

	_, err = svc.Review(ctx, 1, sub.ID, 42, &dto.ReviewSubmissionRequest{
		Status: string(models.FormStatusApproved),
	})
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}

func TestSubmitForStudent(t *testing.T) {
	ctx := context.Background()
	store := newFakeFormStore()
	svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

	draft1, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
		FormType:  string(models.FormTypeEnrollment),
		StudentID: 7,
	})
	require.NoError(t, err)
	_, err = svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{
		FormType:  string(models.FormTypeInterview),
		StudentID: 7,
	})
	require.NoError(t, err)

	// one is already approved and must stay approved
	_, err = svc.Submit(ctx, 1, draft1.ID)
	require.NoError(t, err)
	_, err = svc.Review(ctx, 1, draft1.ID, 42, &dto.ReviewSubmissionRequest{
		Status: string(models.FormStatusApproved),
	})
	require.NoError(t, err)

	subs, err := svc.SubmitForStudent(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	byStatus := map[models.FormStatus]int{}
	for _, sub := range subs {
		byStatus[sub.Status]++
	}
	assert.Equal(t, 1, byStatus[models.FormStatusApproved])
	assert.Equal(t, 1, byStatus[models.FormStatusSubmitted])

	_, err = svc.SubmitForStudent(ctx, 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestListByStudent(t *testing.T) {
	ctx := context.Background()
	store := newFakeFormStore()
	svc := NewFormService(store, &fakeLookup{schoolID: 1, studentID: 7})

	for _, ft := range []models.FormType{models.FormTypeEnrollment, models.FormTypeInterview} {
		_, err := svc.CreateDraft(ctx, 1, &dto.CreateDraftRequest{FormType: string(ft), StudentID: 7})
		require.NoError(t, err)
	}

	subs, err := svc.ListByStudent(ctx, 1, 7)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	_, err = svc.ListByStudent(ctx, 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
