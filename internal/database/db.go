package database

import (
	"fmt"
	"log/slog"

	"github.com/justsurfingit/placement-portal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const uniqueApplicationIndex = "idx_applications_job_user"

// Connect opens the pool and migrates the three tables. With uniqueApplications
// set, a unique index on (job_id, user_id) closes the check-then-write window
// in the apply flow; without it duplicates remain possible under concurrency.
func Connect(dsn string, uniqueApplications bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("database connection established")

	slog.Info("running migrations")
	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if uniqueApplications {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON applications (job_id, user_id)", uniqueApplicationIndex)
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("create %s: %w", uniqueApplicationIndex, err)
		}
		slog.Info("unique application index enforced", "index", uniqueApplicationIndex)
	}
	return db, nil
}
