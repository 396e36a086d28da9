package database

import (
	"log"

	"freightdesk/config"
	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Shipment{},
		&models.TimelineEvent{},
		&models.Document{},
		&models.Notification{},
	)
}

// SeedAdmin creates the bootstrap admin account if no admin exists yet.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD or fall back to the
// development defaults.
func SeedAdmin(db *gorm.DB, email, password string) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	if email == "" {
		email = "admin@freightdesk.local"
	}
	if password == "" {
		password = "admin1234"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("seed admin: %v", err)
	}
}
