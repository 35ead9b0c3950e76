// Источники промптов.
package prompt

import "errors"

// Source — интерфейс загрузки промптов из различных хранилищ.
//
// Реализации: FileSource (YAML файлы), SQLiteSource (база данных).
// Правило 6: pkg/prompt не импортирует internal/ и бизнес-логику.
type Source interface {
	// Load загружает промпт по идентификатору.
	// Возвращает ErrNotFound если источник не содержит такой промпт.
	Load(promptID string) (*PromptFile, error)
}

// ErrNotFound возвращается когда источник не содержит промпт.
var ErrNotFound = errors.New("prompt not found in source")
