package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shopgate/internal/config"
	"shopgate/internal/db"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

// seedRole pairs a role name with its permission grants.
type seedRole struct {
	Name        string
	Permissions model.PermissionSet
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	roles := []seedRole{
		{
			Name: "ADMIN",
			Permissions: model.PermissionSet{
				model.PermPostLogin:    true,
				model.PermGetMyUser:    true,
				model.PermGetUsers:     true,
				model.PermPostProducts: true,
				model.PermPublishImage: true,
			},
		},
		{
			Name: "USER",
			Permissions: model.PermissionSet{
				model.PermPostLogin: true,
				model.PermGetMyUser: true,
			},
		},
	}

	ctx := context.Background()
	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	created, updated, err := seedRoles(ctx, roleRepo, roles)
	if err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
	log.Printf("Roles seeded: %d created, %d updated", created, updated)

	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@example.com")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "change-me-now")
	if err := seedAdmin(ctx, roleRepo, userRepo, adminEmail, adminPassword); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedRoles creates or updates the fixed role set.
func seedRoles(ctx context.Context, repo repository.RoleRepository, roles []seedRole) (created int, updated int, err error) {
	for _, r := range roles {
		existing, err := repo.FindByName(ctx, r.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, err
		}

		if existing != nil {
			existing.Permissions = r.Permissions
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, err
			}
			updated++
			continue
		}

		role := &model.Role{Name: r.Name, Permissions: r.Permissions}
		if err := repo.Create(ctx, role); err != nil {
			return created, updated, err
		}
		created++
	}
	return created, updated, nil
}

// seedAdmin creates the demo admin user unless it already exists.
func seedAdmin(ctx context.Context, roles repository.RoleRepository, users repository.UserRepository, email, password string) error {
	if existing, err := users.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	adminRole, err := roles.FindByName(ctx, "ADMIN")
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	changedAt := time.Now().Unix()
	user := &model.User{
		Name:              "Admin",
		Email:             email,
		PasswordHash:      string(hashed),
		RoleID:            &adminRole.ID,
		PasswordChangedAt: &changedAt,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Admin user %s created", email)
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
