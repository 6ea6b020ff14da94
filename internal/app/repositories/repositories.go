package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	SchoolRepository   *SchoolRepository
	RoleRepository     *RoleRepository
	StudentRepository  *StudentRepository
	FormRepository     *FormRepository
	DocumentRepository *DocumentRepository
	AppLogRepository   *AppLogRepository
	TokenRepository    *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		SchoolRepository:   NewSchoolRepository(db),
		RoleRepository:     NewRoleRepository(db),
		StudentRepository:  NewStudentRepository(db),
		FormRepository:     NewFormRepository(db),
		DocumentRepository: NewDocumentRepository(db),
		AppLogRepository:   NewAppLogRepository(db),
		TokenRepository:    NewTokenRepository(db),
	}
}
