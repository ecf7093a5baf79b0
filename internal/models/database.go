package models

import (
	"fmt"

	"github.com/flowboard/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Project{},
		&Column{},
		&Task{},
		&Notification{},
		&NotificationPreference{},
		&Comment{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// DefaultColumns is the workflow template new boards start with.
func DefaultColumns(projectID uint) []Column {
	return []Column{
		{ProjectID: projectID, Key: ColumnKeyTodo, Name: "To Do", Color: "#94a3b8", Position: 1},
		{ProjectID: projectID, Key: ColumnKeyInProgress, Name: "In Progress", Color: "#2563eb", Position: 2},
		{ProjectID: projectID, Key: ColumnKeyDone, Name: "Done", Color: "#10b981", Position: 3},
	}
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	var userCount int64
	DB.Model(&User{}).Count(&userCount)
	if userCount == 0 {
		admin := User{
			Name:  "Workspace Admin",
			Email: "admin@flowboard.local",
			Role:  RoleAdmin,
		}
		if err := DB.Create(&admin).Error; err != nil {
			return err
		}
	}
	return nil
}
