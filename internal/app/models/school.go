package models

import "time"

// School is a tenant: a customer organization owning all of its users,
// roles and prospective students. Name is unique across the platform.
type School struct {
	ID                 int64              `json:"id" db:"id" example:"1"`
	Name               string             `json:"name" db:"name" example:"Riverside College"`
	AddressLine1       string             `json:"addressLine1" db:"address_line1"`
	AddressLine2       *string            `json:"addressLine2,omitempty" db:"address_line2"`
	City               string             `json:"city" db:"city"`
	PostCode           string             `json:"postCode" db:"post_code"`
	Country            string             `json:"country" db:"country"`
	EmployeeCount      int                `json:"employeeCount" db:"employee_count"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus" db:"registration_status" example:"in_progress"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}
