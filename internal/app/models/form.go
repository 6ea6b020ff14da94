package models

import "time"

// FormType enumerates the form templates the platform ships.
type FormType string

const (
	FormTypeEnrollment  FormType = "ENROLLMENT"
	FormTypeInterview   FormType = "INTERVIEW"
	FormTypeInduction   FormType = "INDUCTION"
	FormTypeDeclaration FormType = "DECLARATION"
)

// Form is a form template. Metadata is an arbitrary JSON document describing
// the fields the frontend renders.
type Form struct {
	ID        int64          `json:"id" db:"id"`
	Type      FormType       `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	IsActive  bool           `json:"isActive" db:"is_active"`
	Metadata  map[string]any `json:"metadata" db:"metadata"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// FormSubmission holds a student's answers for one form template.
// Lifecycle: draft -> submitted -> under_review -> approved|rejected.
type FormSubmission struct {
	ID            int64          `json:"id" db:"id"`
	FormID        int64          `json:"formId" db:"form_id"`
	StudentID     int64          `json:"studentId" db:"student_id"`
	Status        FormStatus     `json:"status" db:"status" example:"draft"`
	Data          map[string]any `json:"data" db:"data"`
	ReviewerID    *int64         `json:"reviewerId,omitempty" db:"reviewer_id"`
	ReviewComment *string        `json:"reviewComment,omitempty" db:"review_comment"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}
