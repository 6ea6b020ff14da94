package models

import "time"

// Permission names form a closed catalog maintained by the seed step.
// Route guards reference these constants; the database rows mirror them.
const (
	PermissionAddStudent               = "Add student"
	PermissionSendApplication          = "Send Application"
	PermissionApproveRejectApplication = "Approve/reject application"
	PermissionInduction                = "Induction"
	PermissionLearningPlatform         = "Learning Platform"
	PermissionCertificate              = "Certificate"
	PermissionAudit                    = "Audit"
	PermissionAssumeAnyRole            = "Assume Any Role"
	PermissionManagePersonalProfile    = "Manage Personal Profile"
)

// PermissionCatalog lists every permission the application knows about.
func PermissionCatalog() []string {
	return []string{
		PermissionAddStudent,
		PermissionSendApplication,
		PermissionApproveRejectApplication,
		PermissionInduction,
		PermissionLearningPlatform,
		PermissionCertificate,
		PermissionAudit,
		PermissionAssumeAnyRole,
		PermissionManagePersonalProfile,
	}
}

// Permission is a named capability, global across tenants.
type Permission struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Role is a named bundle of permissions scoped to one school. Two schools
// may each define a role named "accessor" independently; (school_id, name)
// is unique.
type Role struct {
	ID          int64  `json:"id" db:"id"`
	SchoolID    int64  `json:"schoolId" db:"school_id"`
	Name        string `json:"name" db:"name" example:"accessor"`
	Description string `json:"description" db:"description"`

	IsArchived    bool       `json:"isArchived" db:"is_archived"`
	ArchivedAt    *time.Time `json:"archivedAt,omitempty" db:"archived_at"`
	ArchivedBy    *int64     `json:"archivedBy,omitempty" db:"archived_by"`
	ArchiveReason *string    `json:"archiveReason,omitempty" db:"archive_reason"`

	// Permissions is populated when the role is loaded with its grants.
	Permissions []string `json:"permissions,omitempty"`
}
