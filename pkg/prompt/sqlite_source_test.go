// Тесты SQLite источника промптов на базе в памяти.
package prompt

import (
	"database/sql"
	"errors"
	"testing"
)

// newTestDB создает базу в памяти с таблицей prompts.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `CREATE TABLE prompts (
		name     TEXT NOT NULL,
		position INTEGER NOT NULL,
		role     TEXT NOT NULL,
		content  TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	return db
}

// TestSQLiteSource_Load проверяет сборку промпта из строк таблицы.
func TestSQLiteSource_Load(t *testing.T) {
	db := newTestDB(t)

	// Вставляем вне порядка position, чтобы проверить сортировку
	inserts := []struct {
		name     string
		position int
		role     string
		content  string
	}{
		{"router", 2, "user", "example request"},
		{"router", 1, "system", "route requests"},
		{"other", 1, "system", "unrelated"},
	}
	for _, row := range inserts {
		_, err := db.Exec(
			"INSERT INTO prompts (name, position, role, content) VALUES (?, ?, ?, ?)",
			row.name, row.position, row.role, row.content)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	source := &SQLiteSource{db: db, table: "prompts"}

	pf, err := source.Load("router")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(pf.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(pf.Messages))
	}
	if pf.Messages[0].Role != "system" || pf.Messages[0].Content != "route requests" {
		t.Errorf("Expected system message first, got %+v", pf.Messages[0])
	}
	if pf.Messages[1].Role != "user" {
		t.Errorf("Expected user message second, got %+v", pf.Messages[1])
	}
}

// TestSQLiteSource_NotFound проверяет ErrNotFound для незнакомого имени.
func TestSQLiteSource_NotFound(t *testing.T) {
	db := newTestDB(t)
	source := &SQLiteSource{db: db, table: "prompts"}

	_, err := source.Load("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
