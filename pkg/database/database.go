package database

import (
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/model"
	"fmt"
	"log"

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
		// issuance relies on recognizing unique-key violations
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate creates the schema and the rows the issuance path depends on:
// the folio counter and the certificate settings singleton.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.FolioCounter{},
		&model.CertificateSettings{},
	)
	if err != nil {
		return err
	}

	// Folio numbering starts at 1 and survives restarts.
	var fcCount int64
	db.Model(&model.FolioCounter{}).Count(&fcCount)
	if fcCount == 0 {
		if err := db.Create(&model.FolioCounter{ID: 1, NextNumber: 1}).Error; err != nil {
			return err
		}
	}

	var csCount int64
	db.Model(&model.CertificateSettings{}).Count(&csCount)
	if csCount == 0 {
		defaults := &model.CertificateSettings{
			InstitutionName: "Colegio de Psicólogos de Guatemala",
			HeaderLine:      "Certificado de Aprobación",
			Signer1Name:     "Firma autorizada",
			Signer1Title:    "Colegio de Psicólogos de Guatemala",
			Signer2Name:     "Sello / Validación institucional",
			Signer2Title:    "Aula Virtual",
		}
		defaults.ID = 1
		if err := db.Create(defaults).Error; err != nil {
			return err
		}
	}

	return nil
}
