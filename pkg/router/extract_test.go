// Тесты извлечения вызова инструмента из текста модели.
package router

import (
	"encoding/json"
	"testing"
)

// TestExtractToolCall проверяет извлечение вызова из разных форм текста роутера.
func TestExtractToolCall(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantFound bool
		wantTool  string
		wantInput string
	}{
		{
			name:      "plain call",
			text:      `{"tool": "get_weather", "input": "delhi"}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "delhi",
		},
		{
			name:      "call surrounded by prose",
			text:      `Sure, calling the tool now: {"tool": "get_news", "input": "sports"} one moment.`,
			wantFound: true,
			wantTool:  "get_news",
			wantInput: "sports",
		},
		{
			name:      "markdown fenced call",
			text:      "```json\n{\"tool\": \"get_search\", \"input\": \"golang\"}\n```",
			wantFound: true,
			wantTool:  "get_search",
			wantInput: "golang",
		},
		{
			name: "multiline pretty printed call",
			text: `{
  "tool": "get_weather",
  "input": "goa"
}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "goa",
		},
		{
			name:      "braces inside string value",
			text:      `{"tool": "get_news", "input": "a{b}c"}`,
			wantFound: true,
			wantTool:  "get_news",
			wantInput: "a{b}c",
		},
		{
			name:      "escaped quotes inside string value",
			text:      `{"tool": "get_search", "input": "say \"hi\" {now}"}`,
			wantFound: true,
			wantTool:  "get_search",
			wantInput: `say "hi" {now}`,
		},
		{
			name:      "call nested inside wrapper object",
			text:      `{"reply": {"tool": "get_weather", "input": "goa"}}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "goa",
		},
		{
			name:      "first of several calls wins",
			text:      `{"tool": "get_weather", "input": "x"} {"tool": "get_news", "input": "y"}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "x",
		},
		{
			name:      "broken object before valid call",
			text:      `{oops} {"tool": "get_news", "input": "y"}`,
			wantFound: true,
			wantTool:  "get_news",
			wantInput: "y",
		},
		{
			name:      "unclosed brace before valid call",
			text:      `{ {"tool": "get_weather", "input": "goa"}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "goa",
		},
		{
			name:      "missing input field",
			text:      `{"tool": "get_weather"}`,
			wantFound: true,
			wantTool:  "get_weather",
			wantInput: "",
		},
		{
			name:      "plain text without call",
			text:      "The weather is nice today, no tools needed.",
			wantFound: false,
		},
		{
			name:      "empty text",
			text:      "",
			wantFound: false,
		},
		{
			name:      "object without tool key",
			text:      `{"input": "delhi"}`,
			wantFound: false,
		},
		{
			name:      "empty tool name",
			text:      `{"tool": "", "input": "delhi"}`,
			wantFound: false,
		},
		{
			name:      "unbalanced braces only",
			text:      `{"tool": "get_weather", "input": "delhi"`,
			wantFound: false,
		},
		{
			name:      "non-string input value",
			text:      `{"tool": "get_weather", "input": {"city": "delhi"}}`,
			wantFound: false,
		},
		{
			name:      "tool key mentioned outside json",
			text:      `the "tool" field must be a string`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, found := ExtractToolCall(tt.text)

			if found != tt.wantFound {
				t.Fatalf("ExtractToolCall(%q): found = %v, want %v", tt.text, found, tt.wantFound)
			}
			if !tt.wantFound {
				return
			}
			if call.Tool != tt.wantTool {
				t.Errorf("Tool = %q, want %q", call.Tool, tt.wantTool)
			}
			if call.Input != tt.wantInput {
				t.Errorf("Input = %q, want %q", call.Input, tt.wantInput)
			}
		})
	}
}

// TestExtractToolCall_RoundTrip проверяет что повторное извлечение из
// сериализованного вызова возвращает тот же самый вызов.
func TestExtractToolCall_RoundTrip(t *testing.T) {
	texts := []string{
		`{"tool": "get_weather", "input": "delhi"}`,
		`Calling: {"tool": "get_news", "input": "a{b}c"} now`,
		"```json\n{\"tool\": \"get_search\", \"input\": \"say \\\"hi\\\"\"}\n```",
	}

	for _, text := range texts {
		first, found := ExtractToolCall(text)
		if !found {
			t.Fatalf("ExtractToolCall(%q): call not found", text)
		}

		serialized, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", first, err)
		}

		second, found := ExtractToolCall(string(serialized))
		if !found {
			t.Fatalf("ExtractToolCall(%q): call not found on second pass", serialized)
		}
		if second != first {
			t.Errorf("second pass returned %+v, want %+v", second, first)
		}
	}
}

// TestBalancedRegion проверяет поиск парной скобки с учётом строк.
func TestBalancedRegion(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		start      int
		wantRegion string
		wantFound  bool
	}{
		{
			name:       "flat object",
			s:          `{"a": 1}`,
			start:      0,
			wantRegion: `{"a": 1}`,
			wantFound:  true,
		},
		{
			name:       "nested object",
			s:          `{"a": {"b": 2}} tail`,
			start:      0,
			wantRegion: `{"a": {"b": 2}}`,
			wantFound:  true,
		},
		{
			name:       "brace inside string",
			s:          `{"a": "}"}`,
			start:      0,
			wantRegion: `{"a": "}"}`,
			wantFound:  true,
		},
		{
			name:       "escaped quote keeps string open",
			s:          `{"a": "\"}"}`,
			start:      0,
			wantRegion: `{"a": "\"}"}`,
			wantFound:  true,
		},
		{
			name:      "no closing brace",
			s:         `{"a": 1`,
			start:     0,
			wantFound: false,
		},
		{
			name:       "start mid-string",
			s:          `xx{"a": 1}`,
			start:      2,
			wantRegion: `{"a": 1}`,
			wantFound:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, found := balancedRegion(tt.s, tt.start)

			if found != tt.wantFound {
				t.Fatalf("balancedRegion(%q, %d): found = %v, want %v", tt.s, tt.start, found, tt.wantFound)
			}
			if found && region != tt.wantRegion {
				t.Errorf("region = %q, want %q", region, tt.wantRegion)
			}
		})
	}
}
