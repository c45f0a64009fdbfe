package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// Migrate creates the schema and loads the fixed reference rows.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations")

	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.ProjectStatus{},
		&models.Project{},
		&models.DefectStatus{},
		&models.Info{},
		&models.Defect{},
		&models.Comment{},
		&models.DefectAttachment{},
		&models.DefectHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedReferenceData(db); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

func seedReferenceData(db *gorm.DB) error {
	roles := []models.Role{
		{ID: constants.RoleObserver, Name: "Observer"},
		{ID: constants.RoleEngineer, Name: "Engineer"},
		{ID: constants.RoleManager, Name: "Manager"},
	}

	projectStatuses := []models.ProjectStatus{
		{ID: 1, Name: "Active", Description: "Active project"},
		{ID: 2, Name: "Completed", Description: "Completed project"},
		{ID: 3, Name: "On Hold", Description: "Project on hold"},
	}

	defectStatuses := []models.DefectStatus{
		{ID: constants.StatusNew, Name: "New", Description: "New defect"},
		{ID: constants.StatusInProgress, Name: "In Progress", Description: "Defect in progress"},
		{ID: constants.StatusUnderReview, Name: "Under Review", Description: "Defect under review"},
		{ID: constants.StatusClosed, Name: "Closed", Description: "Defect closed"},
		{ID: constants.StatusCancelled, Name: "Cancelled", Description: "Defect cancelled"},
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return err
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&projectStatuses).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defectStatuses).Error
}

// EnsureDefaultManager creates the bootstrap Manager account on first run,
// when no users exist yet.
func EnsureDefaultManager(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	admin := models.User{
		RoleID:       constants.RoleManager,
		Login:        "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default manager: %w", err)
	}

	log.Info().Str("login", admin.Login).Msg("Default manager account created")
	return nil
}
