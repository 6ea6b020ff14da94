package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTable(t *testing.T) {
	t.Run("every pipeline stage has a permission and an approve transition", func(t *testing.T) {
		for _, def := range PipelineStages() {
			assert.NotEmpty(t, def.Permission, "stage %s", def.Stage)
			assert.True(t, def.CanApprove(), "stage %s", def.Stage)
		}
	})

	t.Run("gates chain through the pipeline", func(t *testing.T) {
		recruiter, ok := DefinitionFor(StageRecruiter)
		require.True(t, ok)
		assert.Nil(t, recruiter.Gate)

		bksd, _ := DefinitionFor(StageBKSD)
		require.NotNil(t, bksd.Gate)
		assert.Equal(t, recruiter.ApproveField, bksd.Gate.Field)
		assert.Equal(t, recruiter.ApproveValue, bksd.Gate.Value)

		inductor, _ := DefinitionFor(StageInductor)
		require.NotNil(t, inductor.Gate)
		assert.Equal(t, bksd.ApproveField, inductor.Gate.Field)
		assert.Equal(t, bksd.ApproveValue, inductor.Gate.Value)

		lazer, _ := DefinitionFor(StageLazer)
		require.NotNil(t, lazer.Gate)
		assert.Equal(t, inductor.ApproveField, lazer.Gate.Field)
		assert.Equal(t, inductor.ApproveValue, lazer.Gate.Value)

		certificate, _ := DefinitionFor(StageCertificate)
		require.NotNil(t, certificate.Gate)
		assert.Equal(t, lazer.ApproveField, certificate.Gate.Field)
		assert.Equal(t, lazer.ApproveValue, certificate.Gate.Value)
	})

	t.Run("bksd and accessor share a gate", func(t *testing.T) {
		bksd, _ := DefinitionFor(StageBKSD)
		accessor, _ := DefinitionFor(StageAccessor)
		require.NotNil(t, accessor.Gate)
		assert.Equal(t, *bksd.Gate, *accessor.Gate)
		assert.True(t, accessor.CanReject())
	})

	t.Run("auditor is read-only and ungated", func(t *testing.T) {
		auditor, ok := DefinitionFor(StageAuditor)
		require.True(t, ok)
		assert.Nil(t, auditor.Gate)
		assert.False(t, auditor.CanApprove())
		assert.False(t, auditor.CanReject())
	})

	t.Run("unknown stage is not defined", func(t *testing.T) {
		_, ok := DefinitionFor(Stage("JANITOR"))
		assert.False(t, ok)
	})
}

func TestStatusValue(t *testing.T) {
	student := &ProspectiveStudent{
		ApplicationMail:   ApplicationMailSent,
		ApplicationStatus: ApplicationStatusApproved,
		InductorStatus:    InductorStatusSent,
		LazerStatus:       LazerStatusPending,
		CertificateStatus: CertificateStatusPending,
	}

	assert.Equal(t, "Sent", student.StatusValue(FieldApplicationMail))
	assert.Equal(t, "Approved", student.StatusValue(FieldApplicationStatus))
	assert.Equal(t, "Sent", student.StatusValue(FieldInductorStatus))
	assert.Equal(t, "Pending", student.StatusValue(FieldLazerStatus))
	assert.Equal(t, "Pending", student.StatusValue(FieldCertificateStatus))
}

func TestRegistrationStatusNext(t *testing.T) {
	assert.Equal(t, RegistrationVerified, RegistrationInProgress.Next())
	assert.Equal(t, RegistrationCompleted, RegistrationVerified.Next())
	assert.Equal(t, RegistrationCompleted, RegistrationCompleted.Next())
}
