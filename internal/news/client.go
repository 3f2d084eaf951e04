package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://newsapi.org/v2/top-headlines"

// Client представляет клиент для работы с NewsAPI
type Client struct {
	apiKey     string
	category   string
	language   string
	pageSize   int
	baseURL    string
	httpClient *http.Client
}

// topHeadlinesResponse представляет структуру ответа NewsAPI top-headlines
type topHeadlinesResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewClient создает нового клиента NewsAPI
func NewClient(apiKey, category, language string, pageSize int) *Client {
	return &Client{
		apiKey:   apiKey,
		category: category,
		language: language,
		pageSize: pageSize,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchTopHeadlines получает свежие заголовки из NewsAPI.
// Возвращает новости от самых свежих к старым, не больше pageSize штук.
// Пустой результат считается ошибкой: без новостей запуск не имеет смысла.
func (c *Client) FetchTopHeadlines(ctx context.Context) ([]Headline, error) {
	params := url.Values{}
	params.Set("category", c.category)
	params.Set("language", c.language)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("apiKey", c.apiKey)

	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Reason: "ошибка создания запроса", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: "NewsAPI недоступен", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Reason: "ошибка чтения ответа", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Reason: fmt.Sprintf("NewsAPI вернул статус %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var response topHeadlinesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &FetchError{Reason: "ошибка парсинга ответа", Err: err}
	}

	if response.Status != "ok" {
		return nil, &FetchError{
			Reason: fmt.Sprintf("NewsAPI вернул ошибку %s: %s", response.Code, response.Message),
		}
	}

	var headlines []Headline
	for _, article := range response.Articles {
		title := cleanText(article.Title)
		description := cleanText(article.Description)

		// Пропускаем записи без заголовка или без описания и ссылки одновременно
		if title == "" || (description == "" && article.URL == "") {
			continue
		}

		headlines = append(headlines, Headline{
			Title:       title,
			Description: description,
			Source:      article.Source.Name,
			URL:         article.URL,
			PublishedAt: parseDate(article.PublishedAt),
		})
	}

	if len(headlines) == 0 {
		return nil, &FetchError{Reason: "пустой список статей", Err: ErrNoHeadlines}
	}

	// Сначала самые свежие
	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].PublishedAt.After(headlines[j].PublishedAt)
	})

	if len(headlines) > c.pageSize {
		headlines = headlines[:c.pageSize]
	}

	return headlines, nil
}

// cleanText очищает текст от HTML тегов и лишних пробелов
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")

	// Убираем HTML теги
	var result strings.Builder
	inTag := false
	for _, ch := range text {
		if ch == '<' {
			inTag = true
		} else if ch == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(ch)
		}
	}

	text = result.String()

	// Убираем множественные пробелы
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}

	return strings.TrimSpace(text)
}

// parseDate пытается распарсить различные форматы дат.
// NewsAPI отдает RFC3339, но источники иногда протаскивают свои форматы.
func parseDate(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-07:00",
		time.RFC1123,
		time.RFC1123Z,
		time.RFC822,
		time.RFC822Z,
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t
		}
	}

	return time.Time{}
}
