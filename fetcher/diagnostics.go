package fetcher

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxBodyExcerpt максимальная длина тела ответа в логах
const maxBodyExcerpt = 512

// summarizeBody сокращает тело ответа для логов.
// Из HTML страниц ошибок берется заголовок и видимый текст.
func summarizeBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}

	text := string(body)
	if isHTML(contentType, body) {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			doc.Find("script, style").Remove()
			title := strings.TrimSpace(doc.Find("title").First().Text())
			content := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
			switch {
			case title != "" && content != "":
				text = title + ": " + content
			case title != "":
				text = title
			default:
				text = content
			}
		}
	}

	return truncate(strings.TrimSpace(text), maxBodyExcerpt)
}

func isHTML(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "text/html" || mediaType == "application/xhtml+xml" {
			return true
		}
	}
	head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 64)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// truncate обрезает строку по границе символа
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
