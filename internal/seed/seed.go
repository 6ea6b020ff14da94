package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/audease/audease-backend/internal/app/models"
	appRepos "github.com/audease/audease-backend/internal/app/repositories"
)

// CreateDefaultData seeds the global permission catalog and the built-in
// form templates. Both are idempotent; existing rows are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	roleRepo := appRepos.NewRoleRepository(dbPool)
	formRepo := appRepos.NewFormRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (permissions, form templates)...")
	var finalErr error

	for _, name := range appModels.PermissionCatalog() {
		if err := roleRepo.EnsurePermission(ctx, name); err != nil {
			lgr.Error().Err(err).Str("permission", name).Msg("Error seeding permission")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, tpl := range defaultForms() {
		if _, err := formRepo.GetActiveByType(ctx, tpl.Type); err == nil {
			continue
		}
		if _, err := formRepo.CreateForm(ctx, tpl); err != nil {
			lgr.Error().Err(err).Str("formType", string(tpl.Type)).Msg("Error seeding form template")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete.")
	}
	return finalErr
}

func defaultForms() []*appModels.Form {
	return []*appModels.Form{
		{Type: appModels.FormTypeEnrollment, Title: "Enrollment Application", IsActive: true},
		{Type: appModels.FormTypeInterview, Title: "Interview Record", IsActive: true},
		{Type: appModels.FormTypeInduction, Title: "Induction Checklist", IsActive: true},
		{Type: appModels.FormTypeDeclaration, Title: "Learner Declaration", IsActive: true},
	}
}
