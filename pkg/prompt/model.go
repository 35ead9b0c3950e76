// Структуры данных - описывает формат YAML файла промпта.
package prompt

// PromptFile описывает структуру YAML-файла с промптом
type PromptFile struct {
	Config   PromptConfig `yaml:"config"`
	Messages []Message    `yaml:"messages"`
}

// PromptConfig - настройки модели для конкретного промпта
type PromptConfig struct {
	Model       string  `yaml:"model"` // Алиас модели из config.yaml, пустой = дефолт роли
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Message - одно сообщение в чате
type Message struct {
	Role    string `yaml:"role"`    // system, user, assistant
	Content string `yaml:"content"` // Шаблон с {{.Variables}}
}

// SystemText возвращает контент первого системного сообщения.
// Пустая строка если системного сообщения нет.
func (pf *PromptFile) SystemText() string {
	for _, msg := range pf.Messages {
		if msg.Role == "system" {
			return msg.Content
		}
	}
	return ""
}

// SetSystemText заменяет контент первого системного сообщения.
// Если системного сообщения нет — добавляет его первым.
func (pf *PromptFile) SetSystemText(content string) {
	for i, msg := range pf.Messages {
		if msg.Role == "system" {
			pf.Messages[i].Content = content
			return
		}
	}
	pf.Messages = append([]Message{{Role: "system", Content: content}}, pf.Messages...)
}
