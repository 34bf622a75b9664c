package database

import (
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// taskIndexes are the indexes every owner-scoped task query relies on.
// They are declared on models.Task so the migrator knows their columns.
var taskIndexes = []string{
	"idx_tasks_user_created",
	"idx_tasks_user_status",
}

// AddIndexes creates any missing performance-critical indexes.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, name := range taskIndexes {
		if migrator.HasIndex(&models.Task{}, name) {
			logger.L().Debug("index already exists, skipping", zap.String("index", name))
			continue
		}

		if err := migrator.CreateIndex(&models.Task{}, name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}

		logger.L().Info("created index", zap.String("index", name))
	}

	return nil
}
