package dto

// CreateStudentRequest is the recruiter's intake form for a new learner.
type CreateStudentRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName" binding:"required"`
	DateOfBirth    string `json:"dateOfBirth"` // YYYY-MM-DD
	Mobile         string `json:"mobile" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	NINumber       string `json:"niNumber"`
	PassportNumber string `json:"passportNumber"`
	AddressLine1   string `json:"addressLine1" binding:"required"`
	City           string `json:"city" binding:"required"`
	PostCode       string `json:"postCode" binding:"required"`
	Funding        string `json:"funding" binding:"required"`
	Level          string `json:"level" binding:"required"`
	Awarding       string `json:"awarding" binding:"required"`
	ChosenCourse   string `json:"chosenCourse" binding:"required"`
}

// UpdateStudentRequest carries the editable personal/program fields.
type UpdateStudentRequest struct {
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	LastName     string `json:"lastName"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostCode     string `json:"postCode"`
	Funding      string `json:"funding"`
	Level        string `json:"level"`
	Awarding     string `json:"awarding"`
	ChosenCourse string `json:"chosenCourse"`

	// AttendanceStatus records induction meeting attendance.
	AttendanceStatus string `json:"attendanceStatus" binding:"omitempty,oneof=present absent"`
}

// StudentListQuery holds the optional filters every stage listing accepts.
type StudentListQuery struct {
	Search            string `form:"search"`
	Funding           string `form:"funding"`
	ChosenCourse      string `form:"chosenCourse"`
	ApplicationStatus string `form:"applicationStatus"`
	Page              int    `form:"page,default=1"`
	Limit             int    `form:"limit,default=10"`
}

// ArchiveStudentRequest carries the archive reason.
type ArchiveStudentRequest struct {
	Reason string `json:"reason"`
}

// ArchivedListQuery filters the archived-student listing.
type ArchivedListQuery struct {
	Search       string `form:"search"`
	ArchivedFrom string `form:"archivedFrom"` // YYYY-MM-DD
	ArchivedTo   string `form:"archivedTo"`   // YYYY-MM-DD
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
}

// MoveStudentRequest relocates a record between stage dashboards.
type MoveStudentRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}
