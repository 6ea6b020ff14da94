package models

import "time"

// ProspectiveStudent is the central workflow entity. Each stage of the
// pipeline gates its reads on one of the status fields and mutates its own;
// the Version column backs optimistic concurrency on those writes.
type ProspectiveStudent struct {
	ID          int64 `json:"id" db:"id" example:"1"`
	SchoolID    int64 `json:"schoolId" db:"school_id"`
	RecruiterID int64 `json:"recruiterId" db:"recruiter_id"` // user who created the record

	FirstName      string     `json:"firstName" db:"first_name" example:"Jane"`
	MiddleName     *string    `json:"middleName,omitempty" db:"middle_name"`
	LastName       string     `json:"lastName" db:"last_name" example:"Smith"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Mobile         string     `json:"mobile" db:"mobile"`
	Email          string     `json:"email" db:"email" example:"jane@example.com"`
	NINumber       *string    `json:"niNumber,omitempty" db:"ni_number"`
	PassportNumber *string    `json:"passportNumber,omitempty" db:"passport_number"`
	AddressLine1   string     `json:"addressLine1" db:"address_line1"`
	City           string     `json:"city" db:"city"`
	PostCode       string     `json:"postCode" db:"post_code"`

	Funding      string `json:"funding" db:"funding"`
	Level        string `json:"level" db:"level"`
	Awarding     string `json:"awarding" db:"awarding"`
	ChosenCourse string `json:"chosenCourse" db:"chosen_course"`

	ApplicationMail   ApplicationMail   `json:"applicationMail" db:"application_mail" example:"Not sent"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus" db:"application_status" example:"Pending"`
	InductorStatus    InductorStatus    `json:"inductorStatus" db:"inductor_status"`
	LazerStatus       LazerStatus       `json:"lazerStatus" db:"lazer_status"`
	CertificateStatus CertificateStatus `json:"certificateStatus" db:"certificate_status"`
	AttendanceStatus  AttendanceStatus  `json:"attendanceStatus" db:"attendance_status"`

	// Stage is the dashboard the record currently sits on. Moving a record
	// is a single-row mutation of this column.
	Stage Stage `json:"stage" db:"stage" example:"RECRUITER"`

	IsArchived    bool       `json:"isArchived" db:"is_archived"`
	ArchivedAt    *time.Time `json:"archivedAt,omitempty" db:"archived_at"`
	ArchivedBy    *int64     `json:"archivedBy,omitempty" db:"archived_by"`
	ArchiveReason *string    `json:"archiveReason,omitempty" db:"archive_reason"`

	Version   int64     `json:"-" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// StatusValue returns the current value of the named status field.
func (s *ProspectiveStudent) StatusValue(field StatusField) string {
	switch field {
	case FieldApplicationMail:
		return string(s.ApplicationMail)
	case FieldApplicationStatus:
		return string(s.ApplicationStatus)
	case FieldInductorStatus:
		return string(s.InductorStatus)
	case FieldLazerStatus:
		return string(s.LazerStatus)
	case FieldCertificateStatus:
		return string(s.CertificateStatus)
	}
	return ""
}

// FullName joins the student's name parts.
func (s *ProspectiveStudent) FullName() string {
	name := s.FirstName
	if s.MiddleName != nil && *s.MiddleName != "" {
		name += " " + *s.MiddleName
	}
	if s.LastName != "" {
		name += " " + s.LastName
	}
	return name
}
