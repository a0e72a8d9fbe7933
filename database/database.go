package database

import (
	"fmt"
	"log"

	config "github.com/tandon-kartikeya/cleanroom-bphc/configs"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Equipment{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedAdmin creates the single administrator account. Admin identity is a
// static credential, deliberately separate from the campus sign-in flow.
func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

// SeedEquipment fills the catalog shown on the booking form if it is empty.
func SeedEquipment() {
	var count int64
	if err := DB.Model(&models.Equipment{}).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check equipment catalog: %v", err)
		return
	}
	if count > 0 {
		return
	}

	for i := 1; i <= 5; i++ {
		item := models.Equipment{
			Code:     fmt.Sprintf("equipment_%d", i),
			Label:    fmt.Sprintf("Equipment #%d", i),
			IsActive: true,
		}
		if err := DB.Create(&item).Error; err != nil {
			log.Fatalf("🔥 Failed to seed equipment catalog: %v", err)
			return
		}
	}
	log.Println("✅ Equipment catalog seeded successfully")
}
