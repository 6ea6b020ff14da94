package models

// Stage identifies one step of the student approval pipeline.
type Stage string

const (
	StageRecruiter   Stage = "RECRUITER"
	StageBKSD        Stage = "BKSD"
	StageAccessor    Stage = "ACCESSOR"
	StageInductor    Stage = "INDUCTOR"
	StageLazer       Stage = "LAZER"
	StageCertificate Stage = "CERTIFICATE"
	StageAuditor     Stage = "AUDITOR" // read-only view across all stages
)

// StatusField names a status column on the prospective_students table.
// Values are a closed set so they are safe to interpolate into SQL.
type StatusField string

const (
	FieldApplicationMail   StatusField = "application_mail"
	FieldApplicationStatus StatusField = "application_status"
	FieldInductorStatus    StatusField = "inductor_status"
	FieldLazerStatus       StatusField = "lazer_status"
	FieldCertificateStatus StatusField = "certificate_status"
)

// Gate is the upstream-status predicate a stage applies to every read.
type Gate struct {
	Field StatusField
	Value string
}

// StageDefinition describes one stage of the pipeline: the permission that
// guards its routes, the gate its reads require, and the status mutation its
// approve/reject operations perform. A write re-checks the gate and the
// record version inside the UPDATE itself, so two concurrent decisions
// cannot both win.
type StageDefinition struct {
	Stage      Stage
	Permission string

	// Gate is nil for stages without an upstream requirement
	// (recruiter sees its own tenant's records, auditor sees everything).
	Gate *Gate

	ApproveField StatusField
	ApproveValue string

	// RejectField is empty for stages without a reject path.
	RejectField StatusField
	RejectValue string

	NotifyOnApprove bool
	NotifyOnReject  bool
}

// CanApprove reports whether the stage has an approve transition.
func (d StageDefinition) CanApprove() bool { return d.ApproveField != "" }

// CanReject reports whether the stage has a reject transition.
func (d StageDefinition) CanReject() bool { return d.RejectField != "" }

// stageTable is the explicit transition table for the pipeline:
//
//	recruiter  --application_mail:=Sent-->      visible to BKSD/accessor
//	bksd       --application_status:=Approved-> visible to inductor
//	accessor   --application_status:=Rejected-> terminal: rejected
//	inductor   --inductor_status:=Sent-->       meeting scheduled
//	lazer      --lazer_status:=Approved-->      visible to certificate
//	certificate --certificate_status:=Approved-> terminal: certified
var stageTable = map[Stage]StageDefinition{
	StageRecruiter: {
		Stage:           StageRecruiter,
		Permission:      PermissionAddStudent,
		Gate:            nil,
		ApproveField:    FieldApplicationMail,
		ApproveValue:    string(ApplicationMailSent),
		NotifyOnApprove: true, // "your application has been sent" mail
	},
	StageBKSD: {
		Stage:        StageBKSD,
		Permission:   PermissionSendApplication,
		Gate:         &Gate{Field: FieldApplicationMail, Value: string(ApplicationMailSent)},
		ApproveField: FieldApplicationStatus,
		ApproveValue: string(ApplicationStatusApproved),
		RejectField:  FieldApplicationStatus,
		RejectValue:  string(ApplicationStatusRejected),
	},
	StageAccessor: {
		Stage:           StageAccessor,
		Permission:      PermissionApproveRejectApplication,
		Gate:            &Gate{Field: FieldApplicationMail, Value: string(ApplicationMailSent)},
		ApproveField:    FieldApplicationStatus,
		ApproveValue:    string(ApplicationStatusApproved),
		RejectField:     FieldApplicationStatus,
		RejectValue:     string(ApplicationStatusRejected),
		NotifyOnApprove: true,
		NotifyOnReject:  true,
	},
	StageInductor: {
		Stage:        StageInductor,
		Permission:   PermissionInduction,
		Gate:         &Gate{Field: FieldApplicationStatus, Value: string(ApplicationStatusApproved)},
		ApproveField: FieldInductorStatus,
		ApproveValue: string(InductorStatusSent),
	},
	StageLazer: {
		Stage:        StageLazer,
		Permission:   PermissionLearningPlatform,
		Gate:         &Gate{Field: FieldInductorStatus, Value: string(InductorStatusSent)},
		ApproveField: FieldLazerStatus,
		ApproveValue: string(LazerStatusApproved),
	},
	StageCertificate: {
		Stage:      StageCertificate,
		Permission: PermissionCertificate,
		// gates on lazer_status, writes certificate_status
		Gate:         &Gate{Field: FieldLazerStatus, Value: string(LazerStatusApproved)},
		ApproveField: FieldCertificateStatus,
		ApproveValue: string(CertificateStatusApproved),
	},
	StageAuditor: {
		Stage:      StageAuditor,
		Permission: PermissionAudit,
		Gate:       nil,
	},
}

// DefinitionFor returns the stage definition for the given stage.
func DefinitionFor(stage Stage) (StageDefinition, bool) {
	def, ok := stageTable[stage]
	return def, ok
}

// PipelineStages returns the stage definitions that mutate student records,
// in pipeline order.
func PipelineStages() []StageDefinition {
	order := []Stage{StageRecruiter, StageBKSD, StageAccessor, StageInductor, StageLazer, StageCertificate}
	defs := make([]StageDefinition, 0, len(order))
	for _, s := range order {
		defs = append(defs, stageTable[s])
	}
	return defs
}
