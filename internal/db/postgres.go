package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/envutil"
	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.Str("POSTGRES_HOST", "localhost")
	postgresPort := envutil.Str("POSTGRES_PORT", "5432")
	postgresUser := envutil.Str("POSTGRES_USER", "postgres")
	postgresPassword := envutil.Str("POSTGRES_PASSWORD", "")
	postgresName := envutil.Str("POSTGRES_NAME", "equipsense")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.EquipmentType{},
		&types.Equipment{},
		&types.ClassificationLog{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_equipment_type_parent_id",
			stmt: `ALTER TABLE "equipment_type"
				ADD CONSTRAINT "fk_equipment_type_parent_id"
				FOREIGN KEY ("parent_id")
				REFERENCES "equipment_type"("id")
				ON DELETE RESTRICT`,
		},
		{
			name: "fk_equipment_type_node_id",
			stmt: `ALTER TABLE "equipment"
				ADD CONSTRAINT "fk_equipment_type_node_id"
				FOREIGN KEY ("type_node_id")
				REFERENCES "equipment_type"("id")
				ON DELETE SET NULL`,
		},
		{
			name: "fk_classification_log_equipment_id",
			stmt: `ALTER TABLE "classification_log"
				ADD CONSTRAINT "fk_classification_log_equipment_id"
				FOREIGN KEY ("equipment_id")
				REFERENCES "equipment"("id")
				ON DELETE SET NULL`,
		},
	}
	for _, c := range constraints {
		if err := s.db.Exec(c.stmt).Error; err != nil {
			// Re-running migrations against an existing schema hits
			// duplicate-constraint errors; those are not fatal.
			s.log.Warn("Constraint not applied", "constraint", c.name, "error", err)
		}
	}
	return nil
}
