// Извлечение вызова инструмента из текста модели.
package router

import (
	"encoding/json"
	"strings"

	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// ExtractToolCall ищет в тексте роутера JSON объект вызова инструмента.
//
// Сканер перебирает открывающие '{' и для каждой находит парную '}'
// с учётом вложенности, строковых литералов и экранирования. Первый
// сбалансированный регион, который содержит ключ "tool" и разбирается
// в ToolCall, считается вызовом.
//
// ok=false означает что вызова в тексте нет: текст модели — обычный
// ответ пользователю, а не запрос инструмента. Любой мусор вокруг
// JSON (markdown ограждения, пояснения модели) игнорируется.
func ExtractToolCall(text string) (tools.ToolCall, bool) {
	cleaned := utils.CleanJsonBlock(text)

	for start := 0; start < len(cleaned); start++ {
		if cleaned[start] != '{' {
			continue
		}

		region, found := balancedRegion(cleaned, start)
		if !found {
			continue
		}

		if call, ok := parseToolCall(region); ok {
			return call, true
		}
	}

	return tools.ToolCall{}, false
}

// balancedRegion возвращает регион от cleaned[start] ('{') до парной '}'.
//
// Скобки внутри строковых литералов не считаются, \" внутри строки
// не закрывает её. Работает по байтам: все значимые символы — ASCII,
// многобайтовые руны UTF-8 с ними не совпадают.
func balancedRegion(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// parseToolCall разбирает сбалансированный регион в ToolCall.
//
// Регион без ключа "tool" или с пустым именем инструмента вызовом
// не считается.
func parseToolCall(region string) (tools.ToolCall, bool) {
	if !strings.Contains(region, `"tool"`) {
		return tools.ToolCall{}, false
	}

	var call tools.ToolCall
	if err := json.Unmarshal([]byte(region), &call); err != nil {
		return tools.ToolCall{}, false
	}
	if call.Tool == "" {
		return tools.ToolCall{}, false
	}

	return call, true
}
