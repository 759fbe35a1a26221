package migrate

import (
	"context"
	_ "embed"
	"fmt"

	"food-ordering/internal/xpkg/db"
	"food-ordering/internal/xpkg/logger"
)

//go:embed schema.sql
var Schema string

// Migrator applies the schema and makes sure a super admin exists.
type Migrator struct {
	conn  db.Conn
	admin SuperAdminEnsurer
	mylog logger.Logger
}

type SuperAdminEnsurer interface {
	EnsureSuperAdmin(ctx context.Context, username, password string) (bool, error)
}

func NewMigrator(conn db.Conn, admin SuperAdminEnsurer, mylog logger.Logger) *Migrator {
	return &Migrator{
		conn:  conn,
		admin: admin,
		mylog: mylog,
	}
}

// Apply runs the idempotent schema in one transaction.
func (m *Migrator) Apply(ctx context.Context) error {
	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	m.mylog.Action("schema_applied").Info("Schema is up to date")
	return nil
}

func (m *Migrator) Run(ctx context.Context, adminUser, adminPassword string) error {
	if err := m.Apply(ctx); err != nil {
		return err
	}

	created, err := m.admin.EnsureSuperAdmin(ctx, adminUser, adminPassword)
	if err != nil {
		return err
	}
	if created {
		m.mylog.Action("super_admin_created").Info("Super admin account created", "username", adminUser)
	} else {
		m.mylog.Action("super_admin_exists").Info("Super admin already present, bootstrap skipped")
	}
	return nil
}
