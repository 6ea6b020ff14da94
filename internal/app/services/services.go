package services

// Services defined in this package:
// - AuthService: authentication, token refresh, account management
// - SchoolService: tenant onboarding and registration status
// - RoleService: roles and permission grants
// - UserService: staff account listing and role assignment
// - StageService: the student approval pipeline dashboards
// - DashboardService: cross-dashboard moves and counts
// - ArchiveService: archiving and restoring student records
// - FormService: form templates and the submission lifecycle
// - DocumentService: uploads, folders and moves
// - AppLogService: per-user action logs
