package dto

// OnboardSchoolRequest creates a school together with its admin user in a
// single transaction.
type OnboardSchoolRequest struct {
	Name          string `json:"name" binding:"required"`
	AddressLine1  string `json:"addressLine1" binding:"required"`
	AddressLine2  string `json:"addressLine2"`
	City          string `json:"city" binding:"required"`
	PostCode      string `json:"postCode" binding:"required"`
	Country       string `json:"country" binding:"required"`
	EmployeeCount int    `json:"employeeCount" binding:"min=0"`

	Admin struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Username  string `json:"username" binding:"required,min=3"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
	} `json:"admin" binding:"required"`
}

// CreateRoleRequest defines a role and its permission grants.
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// ArchiveRoleRequest carries the archive reason for a role.
type ArchiveRoleRequest struct {
	Reason string `json:"reason"`
}
