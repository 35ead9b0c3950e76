// Базовые типы - определяем универсальный язык общения с моделями
package llm

// Role — роль участника диалога.
type Role string

// Константы ролей
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message — одно сообщение чата.
type Message struct {
	Role    Role   // system, user, assistant
	Content string // Текст сообщения
}
