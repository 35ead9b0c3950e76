// Типы ответов NewsAPI.
package newsapi

// EverythingResponse — ответ endpoint'а /v2/everything.
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Article — одна статья из выдачи.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Source — издание, опубликовавшее статью.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// apiError — тело ошибки NewsAPI (status: "error").
type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
