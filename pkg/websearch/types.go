// Типы ответов Google Custom Search API.
package websearch

// SearchResponse — ответ endpoint'а /customsearch/v1.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// SearchItem — один результат поиска.
type SearchItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Snippet      string `json:"snippet"`
	FormattedURL string `json:"formattedUrl"`
}
