// Файловый источник промптов.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSource — загрузка промптов из YAML файлов: <baseDir>/<promptID>.yaml
type FileSource struct {
	baseDir string
}

var _ Source = (*FileSource)(nil)

// NewFileSource создаёт FileSource с указанной базовой директорией.
func NewFileSource(baseDir string) *FileSource {
	return &FileSource{baseDir: baseDir}
}

// Load загружает промпт из YAML файла.
func (s *FileSource) Load(promptID string) (*PromptFile, error) {
	path := filepath.Join(s.baseDir, promptID+".yaml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	pf, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt '%s': %w", promptID, err)
	}

	return pf, nil
}
