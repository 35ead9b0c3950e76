package factory

import (
	"fmt"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/llm"
	"github.com/ilkoid/eve-ai/pkg/llm/openai"
)

// DefaultOllamaBaseURL — OpenAI-совместимый endpoint локальной Ollama.
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// NewLLMProvider создает провайдера на основе конфигурации модели
func NewLLMProvider(modelDef config.ModelDef) (llm.StreamingProvider, error) {
	switch modelDef.Provider {
	case "ollama":
		// Ollama не проверяет ключ, но SDK требует непустой
		if modelDef.BaseURL == "" {
			modelDef.BaseURL = DefaultOllamaBaseURL
		}
		if modelDef.APIKey == "" {
			modelDef.APIKey = "ollama"
		}
		return openai.NewClient(modelDef), nil

	case "zai", "openai", "deepseek":
		return openai.NewClient(modelDef), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}
}
