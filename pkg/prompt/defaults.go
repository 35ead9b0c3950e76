// Встроенные дефолтные промпты.
package prompt

// defaultRouterPrompt возвращает дефолтный промпт роутера.
//
// Используется как fallback когда источник не содержит промпт router.
// {{.Tools}} заменяется списком зарегистрированных инструментов.
func defaultRouterPrompt() *PromptFile {
	return &PromptFile{
		Messages: []Message{
			{
				Role: "system",
				Content: `You are Eve, an assistant that routes user requests to tools.

Available tools:
{{.Tools}}

If the request needs a tool, reply with a single JSON object and nothing else:
{"tool": "<tool name>", "input": "<argument for the tool>"}

The input is the location for get_weather and the topic for get_news or
get_search. If no tool fits the request, answer the user directly in plain
text and do not output any JSON.`,
			},
		},
	}
}

// defaultResponderPrompt возвращает дефолтный промпт респондера.
//
// Используется как fallback когда источник не содержит промпт responder.
func defaultResponderPrompt() *PromptFile {
	return &PromptFile{
		Messages: []Message{
			{
				Role: "system",
				Content: `You are Eve, a helpful assistant. You receive the user's original
request together with the result of a tool call. Phrase a short, friendly
reply based on the tool data. If the tool reported a failure, apologize and
briefly explain what went wrong instead of inventing an answer.`,
			},
		},
	}
}
