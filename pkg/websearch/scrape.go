// Извлечение основного текста страницы Википедии.
package websearch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ExtractContent достаёт абзацы основного контента страницы Википедии.
//
// Берёт все <p> внутри div#mw-content-text и оставляет только абзацы
// длиннее minLen рун: короткие это координаты, подписи и прочий мусор
// разметки. Абзацы склеиваются переводом строки.
func ExtractContent(html string, minLen int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	container := doc.Find("div#mw-content-text")
	if container.Length() == 0 {
		return "", fmt.Errorf("page has no mw-content-text container")
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if utf8.RuneCountInString(text) > minLen {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n"), nil
}
