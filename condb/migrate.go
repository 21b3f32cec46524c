package condb

import (
	"fmt"
	"log"

	"vitrine/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var foreignKeys = []struct {
	table, name, ddl string
}{
	{"products", "fk_products_shop", "FOREIGN KEY (shop_id) REFERENCES shops(id) ON DELETE SET NULL"},
	{"products", "fk_products_category", "FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL"},
	{"product_images", "fk_product_images_product", "FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE"},
	{"product_details", "fk_product_details_product", "FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE"},
	{"shops", "fk_shops_user", "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
	{"categories", "fk_categories_user", "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
}

// Migrate creates or updates the record tables from the model definitions.
func Migrate(databaseURL string) error {
	log.Println("Starting GORM AutoMigrate...")

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql handle: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("Warning: could not enable pgcrypto: %v", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, fk := range foreignKeys {
		stmt := fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s, ADD CONSTRAINT %s %s`,
			fk.table, fk.name, fk.name, fk.ddl)
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("Warning: foreign key %s: %v", fk.name, err)
		}
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}
