package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_edms_documents",
		SQL: `CREATE TABLE IF NOT EXISTS edms_documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title        TEXT        NOT NULL,
  department   TEXT        NOT NULL,
  owner_email  TEXT        NOT NULL,
  tags         TEXT        NOT NULL DEFAULT '',
  description  TEXT        NOT NULL DEFAULT '',
  access_level TEXT        NOT NULL DEFAULT 'private'
                           CHECK (access_level IN ('private', 'team', 'public')),
  file_names   JSONB       NOT NULL DEFAULT '[]'::jsonb,
  file_urls    JSONB       NOT NULL DEFAULT '[]'::jsonb,
  is_deleted   BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  edited_at    TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_edms_documents_owner_email",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_edms_documents_owner_email ON edms_documents (owner_email);`,
	},
	{
		Name: "create_index_edms_documents_department",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_edms_documents_department ON edms_documents (department);`,
	},
	{
		Name: "create_index_edms_documents_access_level",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_edms_documents_access_level ON edms_documents (access_level);`,
	},
	{
		Name: "create_index_edms_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_edms_documents_created_at ON edms_documents (created_at);`,
	},
	{
		Name: "create_index_edms_documents_is_deleted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_edms_documents_is_deleted ON edms_documents (is_deleted) WHERE is_deleted;`,
	},
}

// EnsureMigrated checks if the 'edms_documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.edms_documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
