package models

// Status values for the per-stage fields on a prospective student. The
// string values are stored verbatim in the database and compared by the
// stage gate predicates, so they must not be renamed casually.

// ApplicationMail tracks whether the recruiter has handed the record to BKSD.
type ApplicationMail string

const (
	ApplicationMailNotSent ApplicationMail = "Not sent"
	ApplicationMailSent    ApplicationMail = "Sent"
)

// ApplicationStatus is the BKSD/accessor decision on an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// InductorStatus tracks whether the induction meeting invite was sent.
type InductorStatus string

const (
	InductorStatusNotSent InductorStatus = "Not sent"
	InductorStatusSent    InductorStatus = "Sent"
)

// LazerStatus is the learning-platform approval.
type LazerStatus string

const (
	LazerStatusPending  LazerStatus = "Pending"
	LazerStatusApproved LazerStatus = "Approved"
)

// CertificateStatus is the certificate stage gate.
type CertificateStatus string

const (
	CertificateStatusPending  CertificateStatus = "Pending"
	CertificateStatusApproved CertificateStatus = "Approved"
)

// AttendanceStatus marks induction meeting attendance.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// RegistrationStatus is the school onboarding progress. It only ever
// advances (in_progress -> verified -> completed), never reverses.
type RegistrationStatus string

const (
	RegistrationInProgress RegistrationStatus = "in_progress"
	RegistrationVerified   RegistrationStatus = "verified"
	RegistrationCompleted  RegistrationStatus = "completed"
)

// Next returns the status that follows s, or s itself when terminal.
func (s RegistrationStatus) Next() RegistrationStatus {
	switch s {
	case RegistrationInProgress:
		return RegistrationVerified
	case RegistrationVerified:
		return RegistrationCompleted
	}
	return s
}

// FormStatus is the lifecycle of a form submission.
type FormStatus string

const (
	FormStatusDraft       FormStatus = "draft"
	FormStatusSubmitted   FormStatus = "submitted"
	FormStatusUnderReview FormStatus = "under_review"
	FormStatusApproved    FormStatus = "approved"
	FormStatusRejected    FormStatus = "rejected"
)
