package db

import (
	"log"
	"time"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config shared by every connection: UTC timestamps, and driver errors
// translated so unique violations come back as gorm.ErrDuplicatedKey.
func Config(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dial, Config(logger.Warn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&book.Book{},
		&loan.Loan{},
		&fine.Fine{},
		&settings.Setting{},
	}
}

// Migrate is for development and tests; production schemas are managed
// outside the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
