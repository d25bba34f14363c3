package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	authModel "eventhub_backend/internals/features/auth/model"
	eventModel "eventhub_backend/internals/features/events/events/model"
	regModel "eventhub_backend/internals/features/events/registrations/model"
)

var DB *gorm.DB

// ConnectDB opens the Postgres pool. DSN carries statement_timeout from DB_STATEMENT_TIMEOUT.
func ConnectDB(cfg *configs.AppConfig) (*gorm.DB, error) {
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connecting to PostgreSQL")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 configs.NewGormLogger(),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	DB = db
	log.Info().Msg("DB connected")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("pool tune")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates tables and the constraints the registration guard relies on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&eventModel.EventModel{}, &regModel.RegistrationModel{}, &authModel.RevokedTokenModel{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// (event_id, lower(email)) is the authoritative duplicate guard; emails are also
	// normalized before insert so the plain unique index and this one agree.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_registrations_event_lower_email
		   ON registrations (registration_event_id, LOWER(registration_email))`).Error; err != nil {
		return fmt.Errorf("migrate lower email index: %w", err)
	}

	// sqlite cannot add a CHECK to an existing table; capacity > 0 is also enforced by the DTOs.
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	err := db.Exec(`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_events_capacity_positive') THEN
		     ALTER TABLE events ADD CONSTRAINT ck_events_capacity_positive CHECK (event_capacity > 0);
		   END IF;
		 END $$`).Error
	if err != nil {
		return fmt.Errorf("migrate capacity check: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
