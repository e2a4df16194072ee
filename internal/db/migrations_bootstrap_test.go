package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	embeddedmigrations "github.com/terraincognita07/accounts/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	t.Parallel()

	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "accounts-clean.db"))

	for table, expected := range map[string][]string{
		"accounts":       {"id", "username", "password_hash", "role", "created_at"},
		"account_events": {"id", "username", "role", "kind", "created_at"},
		"sessions":       {"id", "username", "role", "created_at", "expires_at"},
		"profiles": {
			"account_id",
			"email_address", "email_verified_at", "email_code_hash", "email_code_expires_at", "email_code_requested_at", "email_code_attempts",
			"phone_address", "phone_verified_at", "phone_code_hash", "phone_code_expires_at", "phone_code_requested_at", "phone_code_attempts",
			"display_name", "avatar_url", "marketing_opt_in", "notify_prefs", "updated_at",
		},
		"notifications": {"id", "account_id", "type", "data", "created_at", "read_at"},
	} {
		columns := loadTableColumns(t, database, table)
		for _, column := range expected {
			if _, exists := columns[column]; !exists {
				t.Fatalf("expected %s.%s column to exist after migrations", table, column)
			}
		}
	}

	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	t.Parallel()

	databasePath := filepath.Join(t.TempDir(), "accounts-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestApplyMigrationsRunsInNumericOrderOnce(t *testing.T) {
	t.Parallel()

	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "accounts-ordering.db"))

	files := fstest.MapFS{
		"9_widgets.sql":       {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY, label TEXT);")},
		"10_widgets_seed.sql": {Data: []byte("INSERT INTO widgets(label) VALUES ('first');")},
		"README.md":           {Data: []byte("not a migration")},
	}
	for run := 0; run < 2; run++ {
		if err := applyMigrations(database, files); err != nil {
			t.Fatalf("apply migrations run %d: %v", run+1, err)
		}
	}

	var count int64
	if err := database.Table("widgets").Count(&count).Error; err != nil {
		t.Fatalf("count widgets: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the seed migration to run exactly once, got %d rows", count)
	}
}

func TestLoadMigrationsRejectsEmptyMigration(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"0001_empty.sql": {Data: []byte(" ;\n ; ")},
	}
	if _, err := loadMigrations(files); err == nil {
		t.Fatal("expected a migration without statements to be rejected")
	}
}

func TestLoadMigrationsRejectsDuplicateVersions(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"0001_first.sql":  {Data: []byte("SELECT 1;")},
		"0001_second.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := loadMigrations(files); err == nil {
		t.Fatal("expected duplicate migration versions to be rejected")
	}
}

func TestSplitSQLStatementsDropsBlankParts(t *testing.T) {
	t.Parallel()

	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ;CREATE INDEX i ON a(id);  ")
	expected := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a(id)"}
	if !reflect.DeepEqual(statements, expected) {
		t.Fatalf("unexpected statements: %#v", statements)
	}
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.version)
	}

	actualVersions := make([]string, 0)
	for _, record := range loadMigrationRecords(t, database) {
		actualVersions = append(actualVersions, record.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}
