// Сборка текстовой сводки из статей.
package newsapi

import (
	"fmt"
	"strings"
)

// Digest собирает сводку из первых limit статей: издание, описание, ссылка.
// limit <= 0 означает все статьи.
func (r *EverythingResponse) Digest(limit int) string {
	articles := r.Articles
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	entries := make([]string, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, fmt.Sprintf("*%s*\n %s\nLink:- %s\n", a.Source.Name, a.Description, a.URL))
	}

	return strings.Join(entries, "\n")
}
