// Хранилище промптов по ролям: роутер и респондер.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// Переменные окружения, переопределяющие системные промпты.
// Имеют приоритет над любым источником.
const (
	EnvRouterPrompt    = "SYSTEM_PROMPT_TOOL"
	EnvResponderPrompt = "SYSTEM_PROMPT_RESPONDER"
)

// Store отдаёт готовые промпты обеих ролей Eve.
//
// Порядок разрешения системного промпта:
//  1. переменная окружения (EnvRouterPrompt / EnvResponderPrompt)
//  2. источник из конфига (file или sqlite)
//  3. встроенный дефолт
type Store struct {
	source      Source
	routerID    string
	responderID string
}

// NewStore создает хранилище промптов из конфигурации.
func NewStore(cfg config.PromptsConfig) (*Store, error) {
	cfg = cfg.GetDefaults()

	var source Source
	switch cfg.Source {
	case "file":
		source = NewFileSource(cfg.Dir)
	case "sqlite":
		sqliteSource, err := NewSQLiteSource(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("sqlite prompt source: %w", err)
		}
		source = sqliteSource
	default:
		return nil, fmt.Errorf("unknown prompts source: %s", cfg.Source)
	}

	return &Store{
		source:      source,
		routerID:    cfg.Router,
		responderID: cfg.Responder,
	}, nil
}

// Router возвращает промпт роутера.
func (s *Store) Router() (*PromptFile, error) {
	return s.load(s.routerID, EnvRouterPrompt, defaultRouterPrompt)
}

// Responder возвращает промпт респондера.
func (s *Store) Responder() (*PromptFile, error) {
	return s.load(s.responderID, EnvResponderPrompt, defaultResponderPrompt)
}

// load разрешает промпт: источник → дефолт, затем env override поверх.
func (s *Store) load(promptID, envVar string, fallback func() *PromptFile) (*PromptFile, error) {
	pf, err := s.source.Load(promptID)
	switch {
	case err == nil:
		// Промпт из источника
	case errors.Is(err, ErrNotFound):
		utils.Debug("Prompt not in source, using built-in default", "prompt", promptID)
		pf = fallback()
	default:
		return nil, err
	}

	if override := os.Getenv(envVar); override != "" {
		utils.Info("System prompt overridden from environment", "prompt", promptID, "env", envVar)
		pf.SetSystemText(override)
	}

	return pf, nil
}

// Close освобождает ресурсы источника, если они есть.
func (s *Store) Close() error {
	if closer, ok := s.source.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
