package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

// fakeStudentStore replicates the repository's gate and version semantics in
// memory so stage transitions can be exercised end to end.
type fakeStudentStore struct {
	nextID   int64
	students map[int64]*models.ProspectiveStudent
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.ProspectiveStudent{}}
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.ProspectiveStudent) (int64, error) {
	f.nextID++
	clone := *student
	clone.ID = f.nextID
	clone.ApplicationMail = models.ApplicationMailNotSent
	clone.ApplicationStatus = models.ApplicationStatusPending
	clone.InductorStatus = models.InductorStatusNotSent
	clone.LazerStatus = models.LazerStatusPending
	clone.CertificateStatus = models.CertificateStatusPending
	clone.Stage = models.StageRecruiter
	f.students[clone.ID] = &clone
	return clone.ID, nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, schoolID, id int64, gate *models.Gate) (*models.ProspectiveStudent, error) {
	s, ok := f.students[id]
	if !ok || s.SchoolID != schoolID || s.IsArchived {
		return nil, apperrors.ErrStudentNotFound
	}
	if gate != nil && s.StatusValue(gate.Field) != gate.Value {
		return nil, apperrors.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStudentStore) List(_ context.Context, schoolID int64, gate *models.Gate, params dto.StudentListQuery) ([]*models.ProspectiveStudent, int64, error) {
	var out []*models.ProspectiveStudent
	for _, s := range f.students {
		if s.SchoolID != schoolID || s.IsArchived {
			continue
		}
		if gate != nil && s.StatusValue(gate.Field) != gate.Value {
			continue
		}
		if params.Search != "" {
			haystack := s.FirstName + " " + s.LastName + " " + s.Email
			if s.MiddleName != nil {
				haystack += " " + *s.MiddleName
			}
			if !strings.Contains(strings.ToLower(haystack), strings.ToLower(params.Search)) {
				continue
			}
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.ProspectiveStudent) error {
	s, ok := f.students[student.ID]
	if !ok || s.SchoolID != student.SchoolID || s.IsArchived {
		return apperrors.ErrStudentNotFound
	}
	clone := *student
	clone.Version = s.Version
	f.students[student.ID] = &clone
	return nil
}

func (f *fakeStudentStore) UpdateStatus(_ context.Context, upd repositories.StatusUpdate) error {
	s, ok := f.students[upd.StudentID]
	if !ok || s.SchoolID != upd.SchoolID || s.IsArchived {
		return apperrors.ErrStudentNotFound
	}
	if upd.Gate != nil && s.StatusValue(upd.Gate.Field) != upd.Gate.Value {
		return apperrors.ErrStudentNotFound
	}
	if s.Version != upd.Version {
		return apperrors.ErrStaleRecord
	}
	switch upd.SetField {
	case models.FieldApplicationMail:
		s.ApplicationMail = models.ApplicationMail(upd.SetValue)
	case models.FieldApplicationStatus:
		s.ApplicationStatus = models.ApplicationStatus(upd.SetValue)
	case models.FieldInductorStatus:
		s.InductorStatus = models.InductorStatus(upd.SetValue)
	case models.FieldLazerStatus:
		s.LazerStatus = models.LazerStatus(upd.SetValue)
	case models.FieldCertificateStatus:
		s.CertificateStatus = models.CertificateStatus(upd.SetValue)
	default:
		return fmt.Errorf("unknown status field %q", upd.SetField)
	}
	s.Version++
	return nil
}

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	submitted []string
	approved  []string
	rejected  []string
}

func (n *recordingNotifier) NotifySubmitted(toEmail, _ string) {
	n.submitted = append(n.submitted, toEmail)
}

func (n *recordingNotifier) NotifyApproved(toEmail, _, stageName string) {
	n.approved = append(n.approved, toEmail+":"+stageName)
}

func (n *recordingNotifier) NotifyRejected(toEmail, _, stageName string) {
	n.rejected = append(n.rejected, toEmail+":"+stageName)
}

func validIntake() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		FirstName:    "Jane",
		LastName:     "Smith",
		Mobile:       "07700900000",
		Email:        "jane@example.com",
		NINumber:     "QQ123456C",
		AddressLine1: "1 High Street",
		City:         "Leeds",
		PostCode:     "LS1 4DY",
		Funding:      "ESFA",
		Level:        "3",
		Awarding:     "NCFE",
		ChosenCourse: "Health and Social Care",
	}
}

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates record on the recruiter dashboard", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)

		assert.Equal(t, models.StageRecruiter, student.Stage)
		assert.Equal(t, models.ApplicationMailNotSent, student.ApplicationMail)
		assert.Equal(t, models.ApplicationStatusPending, student.ApplicationStatus)
		assert.Equal(t, int64(10), student.RecruiterID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		req := validIntake()
		req.FirstName = "   "
		_, err := svc.CreateStudent(ctx, 1, 10, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects malformed NI number", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		req := validIntake()
		req.NINumber = "DQ123456C" // D is not a valid prefix letter
		_, err := svc.CreateStudent(ctx, 1, 10, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("accepts missing NI number", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		req := validIntake()
		req.NINumber = ""
		student, err := svc.CreateStudent(ctx, 1, 10, req)
		require.NoError(t, err)
		assert.Nil(t, student.NINumber)
	})
}

func TestGateVisibility(t *testing.T) {
	ctx := context.Background()
	store := newFakeStudentStore()
	svc := NewStageService(store, nil)

	student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
	require.NoError(t, err)

	t.Run("fresh record is invisible downstream", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, 1, models.StageBKSD, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

		_, err = svc.GetStudent(ctx, 1, models.StageInductor, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("auditor sees everything", func(t *testing.T) {
		got, err := svc.GetStudent(ctx, 1, models.StageAuditor, student.ID)
		require.NoError(t, err)
		assert.Equal(t, student.ID, got.ID)
	})

	t.Run("recruiter approval opens the BKSD gate", func(t *testing.T) {
		_, err := svc.Approve(ctx, 1, models.StageRecruiter, student.ID)
		require.NoError(t, err)

		got, err := svc.GetStudent(ctx, 1, models.StageBKSD, student.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationMailSent, got.ApplicationMail)
	})

	t.Run("other schools never see the record", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, 2, models.StageAuditor, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

		list, total, err := svc.ListStudents(ctx, 2, models.StageRecruiter, dto.StudentListQuery{})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Zero(t, total)
	})
}

func TestSearchStudents(t *testing.T) {
	ctx := context.Background()
	store := newFakeStudentStore()
	svc := NewStageService(store, nil)

	withMiddle := validIntake()
	withMiddle.MiddleName = "Okonkwo"
	_, err := svc.CreateStudent(ctx, 1, 10, withMiddle)
	require.NoError(t, err)

	other := validIntake()
	other.FirstName = "Tom"
	other.Email = "tom@example.com"
	_, err = svc.CreateStudent(ctx, 1, 10, other)
	require.NoError(t, err)

	t.Run("matches on middle name", func(t *testing.T) {
		list, total, err := svc.ListStudents(ctx, 1, models.StageRecruiter, dto.StudentListQuery{Search: "okonkwo"})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, "Jane", list[0].FirstName)
	})

	t.Run("matches on email", func(t *testing.T) {
		list, total, err := svc.ListStudents(ctx, 1, models.StageRecruiter, dto.StudentListQuery{Search: "tom@example"})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, "Tom", list[0].FirstName)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("recruiter approval notifies the student", func(t *testing.T) {
		store := newFakeStudentStore()
		notifier := &recordingNotifier{}
		svc := NewStageService(store, notifier)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)

		_, err = svc.Approve(ctx, 1, models.StageRecruiter, student.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"jane@example.com"}, notifier.submitted)
	})

	t.Run("accessor reject notifies the student", func(t *testing.T) {
		store := newFakeStudentStore()
		notifier := &recordingNotifier{}
		svc := NewStageService(store, notifier)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)
		_, err = svc.Approve(ctx, 1, models.StageRecruiter, student.ID)
		require.NoError(t, err)

		got, err := svc.Reject(ctx, 1, models.StageAccessor, student.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, got.ApplicationStatus)
		assert.Equal(t, []string{"jane@example.com:accessor"}, notifier.rejected)
	})

	t.Run("bksd decisions are silent", func(t *testing.T) {
		store := newFakeStudentStore()
		notifier := &recordingNotifier{}
		svc := NewStageService(store, notifier)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)
		_, err = svc.Approve(ctx, 1, models.StageRecruiter, student.ID)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, 1, models.StageBKSD, student.ID)
		require.NoError(t, err)
		assert.Empty(t, notifier.approved)
		assert.Empty(t, notifier.rejected)
	})

	t.Run("auditor has no approve action", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)

		_, err = svc.Approve(ctx, 1, models.StageAuditor, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		_, err = svc.Reject(ctx, 1, models.StageAuditor, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("unknown stage", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		_, err := svc.Approve(ctx, 1, models.Stage("JANITOR"), 1)
		assert.ErrorIs(t, err, apperrors.ErrUnknownStage)
	})

	t.Run("concurrent decision loses with a stale record", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := NewStageService(store, nil)

		student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
		require.NoError(t, err)
		_, err = svc.Approve(ctx, 1, models.StageRecruiter, student.ID)
		require.NoError(t, err)

		// A second writer bumps the version between this stage's read and
		// its write.
		loaded, err := store.GetByID(ctx, 1, student.ID, nil)
		require.NoError(t, err)
		require.NoError(t, store.UpdateStatus(ctx, repositories.StatusUpdate{
			SchoolID:  1,
			StudentID: student.ID,
			Version:   loaded.Version,
			SetField:  models.FieldApplicationStatus,
			SetValue:  string(models.ApplicationStatusApproved),
		}))

		err = store.UpdateStatus(ctx, repositories.StatusUpdate{
			SchoolID:  1,
			StudentID: student.ID,
			Version:   loaded.Version,
			SetField:  models.FieldApplicationStatus,
			SetValue:  string(models.ApplicationStatusRejected),
		})
		assert.ErrorIs(t, err, apperrors.ErrStaleRecord)
	})
}

// TestPipelineEndToEnd walks one record through every stage in order and
// checks the gates open one at a time.
func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStudentStore()
	notifier := &recordingNotifier{}
	svc := NewStageService(store, notifier)

	req := validIntake()
	req.FirstName = "Riverside"
	req.LastName = "Learner"
	student, err := svc.CreateStudent(ctx, 1, 10, req)
	require.NoError(t, err)

	steps := []models.Stage{
		models.StageRecruiter,
		models.StageBKSD,
		models.StageInductor,
		models.StageLazer,
		models.StageCertificate,
	}
	for _, stage := range steps {
		_, err := svc.Approve(ctx, 1, stage, student.ID)
		require.NoError(t, err, "approve at %s", stage)
	}

	final, err := svc.GetStudent(ctx, 1, models.StageAuditor, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationMailSent, final.ApplicationMail)
	assert.Equal(t, models.ApplicationStatusApproved, final.ApplicationStatus)
	assert.Equal(t, models.InductorStatusSent, final.InductorStatus)
	assert.Equal(t, models.LazerStatusApproved, final.LazerStatus)
	assert.Equal(t, models.CertificateStatusApproved, final.CertificateStatus)

	// One mail at intake; the silent stages stay silent.
	assert.Len(t, notifier.submitted, 1)
	assert.Empty(t, notifier.rejected)
}

func TestUpdateStudent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStudentStore()
	svc := NewStageService(store, nil)

	student, err := svc.CreateStudent(ctx, 1, 10, validIntake())
	require.NoError(t, err)

	t.Run("updates only the provided fields", func(t *testing.T) {
		got, err := svc.UpdateStudent(ctx, 1, models.StageRecruiter, student.ID, &dto.UpdateStudentRequest{
			Mobile: "07700900999",
		})
		require.NoError(t, err)
		assert.Equal(t, "07700900999", got.Mobile)
		assert.Equal(t, "Jane", got.FirstName)
	})

	t.Run("marks induction attendance", func(t *testing.T) {
		got, err := svc.UpdateStudent(ctx, 1, models.StageRecruiter, student.ID, &dto.UpdateStudentRequest{
			AttendanceStatus: "present",
		})
		require.NoError(t, err)
		assert.Equal(t, models.AttendancePresent, got.AttendanceStatus)

		_, err = svc.UpdateStudent(ctx, 1, models.StageRecruiter, student.ID, &dto.UpdateStudentRequest{
			AttendanceStatus: "late",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects invalid postcode", func(t *testing.T) {
		_, err := svc.UpdateStudent(ctx, 1, models.StageRecruiter, student.ID, &dto.UpdateStudentRequest{
			PostCode: "not a postcode",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}
