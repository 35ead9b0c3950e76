// Тесты клиента NewsAPI на мокированном HTTP клиенте.
package newsapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/eve-ai/pkg/config"
)

// fakeHTTPClient отдаёт заранее заданный ответ и запоминает последний запрос.
type fakeHTTPClient struct {
	status  int
	body    string
	err     error
	lastReq *http.Request
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     make(http.Header),
	}, nil
}

// newTestClient собирает клиент с мокированным HTTP, фиксированным временем
// и без rate limit.
func newTestClient(fake *fakeHTTPClient) *Client {
	return &Client{
		apiKey:        "test_key",
		baseURL:       "https://newsapi.org",
		defaultTopic:  "india",
		articlesLimit: 10,
		httpClient:    fake,
		limiter:       rate.NewLimiter(rate.Inf, 1),
		now: func() time.Time {
			return time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
		},
	}
}

const everythingJSON = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": "bbc-news", "name": "BBC News"},
			"title": "First headline",
			"description": "First description",
			"url": "https://example.com/1",
			"publishedAt": "2026-08-20T10:00:00Z"
		},
		{
			"source": {"id": null, "name": "Reuters"},
			"title": "Second headline",
			"description": "Second description",
			"url": "https://example.com/2",
			"publishedAt": "2026-08-20T09:00:00Z"
		}
	]
}`

// TestEverything_Success проверяет разбор ответа и параметры запроса.
func TestEverything_Success(t *testing.T) {
	fake := &fakeHTTPClient{status: 200, body: everythingJSON}
	client := newTestClient(fake)

	result, err := client.Everything(context.Background(), "sports")
	if err != nil {
		t.Fatalf("Everything failed: %v", err)
	}

	if len(result.Articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(result.Articles))
	}
	if result.Articles[0].Source.Name != "BBC News" {
		t.Errorf("Expected BBC News, got %q", result.Articles[0].Source.Name)
	}

	q := fake.lastReq.URL.Query()
	if q.Get("q") != "sports" {
		t.Errorf("Expected q=sports, got %q", q.Get("q"))
	}
	// Вчерашний день относительно подменённого now
	if q.Get("from") != "2026-08-20" {
		t.Errorf("Expected from=2026-08-20, got %q", q.Get("from"))
	}
	if q.Get("sortBy") != "publishedAt" {
		t.Errorf("Expected sortBy=publishedAt, got %q", q.Get("sortBy"))
	}
	if q.Get("apiKey") != "test_key" {
		t.Errorf("Expected apiKey=test_key, got %q", q.Get("apiKey"))
	}
	if fake.lastReq.URL.Path != "/v2/everything" {
		t.Errorf("Expected path /v2/everything, got %q", fake.lastReq.URL.Path)
	}
}

// TestEverything_DefaultTopic проверяет подстановку темы по умолчанию.
func TestEverything_DefaultTopic(t *testing.T) {
	fake := &fakeHTTPClient{status: 200, body: everythingJSON}
	client := newTestClient(fake)

	if _, err := client.Everything(context.Background(), ""); err != nil {
		t.Fatalf("Everything failed: %v", err)
	}

	if q := fake.lastReq.URL.Query().Get("q"); q != "india" {
		t.Errorf("Expected default topic india, got %q", q)
	}
}

// TestEverything_APIError проверяет текст ошибки при не-200 ответе.
func TestEverything_APIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantPart string
	}{
		{
			name:     "json error with message",
			status:   401,
			body:     `{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid"}`,
			wantPart: "Message: Your API key is invalid",
		},
		{
			name:     "json error without message",
			status:   426,
			body:     `{"status": "error"}`,
			wantPart: "Message: No message provided",
		},
		{
			name:     "plain text body",
			status:   500,
			body:     "internal error",
			wantPart: "Message: internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeHTTPClient{status: tt.status, body: tt.body}
			client := newTestClient(fake)

			_, err := client.Everything(context.Background(), "tech")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			msg := err.Error()
			if !strings.Contains(msg, "News API Error:") {
				t.Errorf("Error text mismatch: %q", msg)
			}
			if !strings.Contains(msg, "Topic: 'tech'") {
				t.Errorf("Expected topic in error, got %q", msg)
			}
			if !strings.Contains(msg, tt.wantPart) {
				t.Errorf("Expected %q in error, got %q", tt.wantPart, msg)
			}
		})
	}
}

// TestDigest проверяет формат сводки и лимит статей.
func TestDigest(t *testing.T) {
	resp := &EverythingResponse{
		Articles: []Article{
			{Source: Source{Name: "BBC News"}, Description: "First description", URL: "https://example.com/1"},
			{Source: Source{Name: "Reuters"}, Description: "Second description", URL: "https://example.com/2"},
		},
	}

	want := "*BBC News*\n First description\nLink:- https://example.com/1\n" +
		"\n" +
		"*Reuters*\n Second description\nLink:- https://example.com/2\n"
	if got := resp.Digest(10); got != want {
		t.Errorf("Digest mismatch:\ngot:  %q\nwant: %q", got, want)
	}

	// Лимит обрезает выдачу
	if got := resp.Digest(1); strings.Contains(got, "Reuters") {
		t.Errorf("Digest(1) must keep only first article, got %q", got)
	}

	// Пустая выдача — пустая строка
	empty := &EverythingResponse{}
	if got := empty.Digest(10); got != "" {
		t.Errorf("Expected empty digest, got %q", got)
	}
}

// TestNewFromConfig проверяет валидацию конфигурации.
func TestNewFromConfig(t *testing.T) {
	_, err := NewFromConfig(config.NewsConfig{})
	if err == nil {
		t.Error("Expected error without api_key, got nil")
	}

	client, err := NewFromConfig(config.NewsConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if client.baseURL != "https://newsapi.org" {
		t.Errorf("Expected default base url, got %q", client.baseURL)
	}
	if client.articlesLimit != 10 {
		t.Errorf("Expected default articles limit 10, got %d", client.articlesLimit)
	}
}
