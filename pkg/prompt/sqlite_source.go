// SQLite источник промптов.
package prompt

import (
	"database/sql"
	"fmt"

	// Драйвер регистрируется через database/sql
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSource — загрузка промптов из SQLite базы.
//
// Источник только читает, записью в базу занимаются внешние инструменты.
// Структура таблицы:
//
//	CREATE TABLE prompts (
//	    name     TEXT NOT NULL,
//	    position INTEGER NOT NULL,
//	    role     TEXT NOT NULL,
//	    content  TEXT NOT NULL
//	);
//
// Один промпт — несколько строк с общим name, собираются в сообщения
// по порядку position.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource открывает базу и проверяет соединение.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open prompts db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping prompts db: %w", err)
	}

	return &SQLiteSource{db: db, table: "prompts"}, nil
}

// Load собирает промпт из строк таблицы по имени.
func (s *SQLiteSource) Load(promptID string) (*PromptFile, error) {
	query := fmt.Sprintf(
		"SELECT role, content FROM %s WHERE name = ? ORDER BY position", s.table)

	rows, err := s.db.Query(query, promptID)
	if err != nil {
		return nil, fmt.Errorf("query prompt '%s': %w", promptID, err)
	}
	defer rows.Close()

	var pf PromptFile
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan prompt row: %w", err)
		}
		pf.Messages = append(pf.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt rows: %w", err)
	}

	if len(pf.Messages) == 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, promptID)
	}

	return &pf, nil
}

// Close закрывает соединение с базой.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
