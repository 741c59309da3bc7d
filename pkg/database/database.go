package database

import (
	"fmt"
	"log"

	"fyp_portal_backend/internal/config"
	"fyp_portal_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.GroupRequest{},
		&model.SupervisorRequest{},
		&model.Document{},
		&model.Evaluation{},
		&model.Milestone{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Default milestone schedule, only when the table is empty.
	var count int64
	db.Model(&model.Milestone{}).Count(&count)
	if count == 0 {
		defaults := []model.Milestone{
			{Name: "Proposal Submission", Order: 1},
			{Name: "SRS Submission", Order: 2},
			{Name: "Design Diagrams", Order: 3},
			{Name: "Final Report", Order: 4},
		}
		for _, m := range defaults {
			db.Create(&m)
		}
	}

	return db, nil
}
