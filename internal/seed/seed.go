package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/tolgad/registra/internal/app/models"
	appRepos "github.com/tolgad/registra/internal/app/repositories"
	"github.com/tolgad/registra/internal/pkg/apperrors"
	"github.com/tolgad/registra/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account and a couple of
// departments if they don't exist. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	departmentRepo := appRepos.NewDepartmentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default admin --- //
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@registra.app"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme123"
		lgr.Warn().Msg("ADMIN_PASSWORD not set, seeding default admin with a well-known password")
	}

	exists, err := userRepo.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default admin")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing default admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Username:  "admin",
				Email:     adminEmail,
				Password:  hashed,
				FirstName: "System",
				LastName:  "Administrator",
				Role:      appModels.RoleAdmin,
				IsActive:  true,
			}
			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating default admin")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("email", adminEmail).Msg("Default admin created")
			}
		}
	}

	// --- Default departments --- //
	departments := []appModels.Department{
		{Name: "Computer Science", Code: "CS"},
		{Name: "Mathematics", Code: "MATH"},
	}
	for i := range departments {
		if err := departmentRepo.Create(ctx, &departments[i]); err != nil &&
			!errors.Is(err, apperrors.ErrDepartmentAlreadyExists) {
			lgr.Error().Err(err).Str("code", departments[i].Code).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
