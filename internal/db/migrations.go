package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'act_kind') THEN
			CREATE TYPE act_kind AS ENUM ('CLIENT', 'SPECIALIST');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'work_act_status') THEN
			CREATE TYPE work_act_status AS ENUM ('DRAFT', 'PENDING', 'APPROVED', 'PAID');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS work_completions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		estimate_id UUID NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		line_item_id UUID NOT NULL REFERENCES estimate_line_items(id) ON DELETE CASCADE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		actual_quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		actual_total NUMERIC(18,2) NOT NULL DEFAULT 0,
		completed_at TIMESTAMPTZ,
		note TEXT,
		last_act_id UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_work_completions_line
		ON work_completions (tenant_id, estimate_id, line_item_id);`,
	`CREATE TABLE IF NOT EXISTS acts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		estimate_id UUID NOT NULL REFERENCES estimates(id),
		project_id UUID NOT NULL,
		kind act_kind NOT NULL,
		number INTEGER NOT NULL,
		act_date DATE NOT NULL,
		period_from DATE,
		period_to DATE,
		total_amount NUMERIC(18,2) NOT NULL,
		total_quantity NUMERIC(18,3) NOT NULL,
		work_count INTEGER NOT NULL,
		status work_act_status NOT NULL DEFAULT 'DRAFT',
		notes TEXT,
		customer_name TEXT,
		contractor_name TEXT,
		contract_reference TEXT,
		object_name TEXT,
		object_address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		seq BIGINT GENERATED ALWAYS AS IDENTITY
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_acts_number
		ON acts (tenant_id, kind, EXTRACT(YEAR FROM act_date), number);`,
	`CREATE INDEX IF NOT EXISTS idx_acts_estimate ON acts (tenant_id, estimate_id, act_date);`,
	`CREATE TABLE IF NOT EXISTS act_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		act_id UUID NOT NULL REFERENCES acts(id) ON DELETE CASCADE,
		line_item_id UUID NOT NULL,
		code VARCHAR(64) NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL DEFAULT '',
		section TEXT NOT NULL DEFAULT '',
		planned_quantity NUMERIC(18,3) NOT NULL,
		actual_quantity NUMERIC(18,3) NOT NULL,
		unit_price NUMERIC(18,2) NOT NULL,
		total_price NUMERIC(18,2) NOT NULL,
		position INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_act_items_act ON act_items (act_id, position);`,
	`CREATE TABLE IF NOT EXISTS act_signatories (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		act_id UUID NOT NULL REFERENCES acts(id) ON DELETE CASCADE,
		role VARCHAR(32) NOT NULL,
		full_name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		basis TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS act_counters (
		tenant_id UUID NOT NULL,
		kind act_kind NOT NULL,
		year INTEGER NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, kind, year)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
