package dto

// CreateDraftRequest starts a draft submission for a student against the
// active template of the given type.
type CreateDraftRequest struct {
	FormType  string         `json:"formType" binding:"required"`
	StudentID int64          `json:"studentId" binding:"required,min=1"`
	Data      map[string]any `json:"data"`
}

// UpdateDraftRequest shallow-merges new data into a draft submission.
type UpdateDraftRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// ReviewSubmissionRequest records the reviewer's decision.
type ReviewSubmissionRequest struct {
	Status  string `json:"status" binding:"required,oneof=approved rejected under_review"`
	Comment string `json:"comment"`
}
