package migration_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cafepos/pkg/migration"
)

var dbSeq atomic.Int64

func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:migr%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

type tableMigration struct {
	table string
}

func (m *tableMigration) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE " + m.table + " (id INTEGER PRIMARY KEY)").Error
}

func (m *tableMigration) Down(db *gorm.DB) error {
	return db.Exec("DROP TABLE " + m.table).Error
}

func init() {
	migration.Register("20260101000001_create_alpha", &tableMigration{table: "alpha"})
	migration.Register("20260101000002_create_beta", &tableMigration{table: "beta"})
}

func TestRunAppliesAllPendingOnce(t *testing.T) {
	db := newDB(t)
	runner := migration.New(db)

	if err := runner.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, table := range []string{"alpha", "beta"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s not created", table)
		}
	}

	// Second run is a no-op, not a re-apply.
	if err := runner.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	if err := db.Table("schema_migrations").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 recorded migrations, got %d", count)
	}
}

func TestRollbackUndoesLastBatch(t *testing.T) {
	db := newDB(t)
	runner := migration.New(db)

	if err := runner.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := runner.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	for _, table := range []string{"alpha", "beta"} {
		if db.Migrator().HasTable(table) {
			t.Errorf("table %s should have been dropped", table)
		}
	}

	var count int64
	if err := db.Table("schema_migrations").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no recorded migrations after rollback, got %d", count)
	}

	// Rolling back an empty history is harmless.
	if err := runner.Rollback(); err != nil {
		t.Fatalf("empty rollback: %v", err)
	}
}
