package models

import "time"

// User defines the user model based on the 'users' table. A user belongs to
// exactly one school and holds at most one role; neither is reassigned
// through the common path.
type User struct {
	ID              int64      `json:"id" db:"id" example:"1"`
	SchoolID        int64      `json:"schoolId" db:"school_id" example:"1"`
	RoleID          *int64     `json:"roleId,omitempty" db:"role_id"` // nullable: no role means no permissions
	FirstName       string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName        string     `json:"lastName" db:"last_name" example:"Doe"`
	Username        string     `json:"username" db:"username" example:"j.doe"`
	Email           string     `json:"email" db:"email" example:"j.doe@riverside.ac.uk"`
	Password        string     `json:"-" db:"password"` // hashed, excluded from JSON
	Phone           *string    `json:"phone,omitempty" db:"phone"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty" db:"expiration_date"`
	PasswordChanged bool       `json:"passwordChanged" db:"password_changed"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Role   *Role   `json:"role,omitempty"`
	School *School `json:"school,omitempty"`
}

// FullName joins the user's name parts.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
