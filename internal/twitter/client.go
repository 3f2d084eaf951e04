package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultBaseURL = "https://api.twitter.com"

// Ошибки публикации, различимые через errors.Is
var (
	ErrUnauthorized = errors.New("твиттер отклонил учетные данные")
	ErrDuplicate    = errors.New("твиттер отклонил дубликат твита")
	ErrRateLimited  = errors.New("твиттер ограничил частоту запросов")
)

// PublishError описывает ошибку этапа публикации твита
type PublishError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ошибка публикации твита: %v (статус %d: %s)", e.Err, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("ошибка публикации твита: статус %d: %s", e.StatusCode, e.Detail)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// PublishResult представляет результат публикации твита
type PublishResult struct {
	Success     bool   `json:"success"`
	TweetID     string `json:"tweet_id,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Client представляет клиент для публикации твитов через Twitter API v2.
// Запросы подписываются OAuth 1.0a от имени пользователя приложения.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// createTweetRequest представляет тело запроса POST /2/tweets
type createTweetRequest struct {
	Text string `json:"text"`
}

// createTweetResponse представляет ответ Twitter API на создание твита
type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// apiErrorResponse представляет тело ошибки Twitter API v2
type apiErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NewClient создает нового клиента Twitter с OAuth1-подписью запросов
func NewClient(consumerKey, consumerSecret, accessToken, accessTokenSecret string) *Client {
	oauthConfig := oauth1.NewConfig(consumerKey, consumerSecret)
	token := oauth1.NewToken(accessToken, accessTokenSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 15 * time.Second

	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// PublishTweet публикует один твит. Одна попытка на запуск:
// повторные попытки — забота внешнего планировщика.
func (c *Client) PublishTweet(ctx context.Context, text string) (*PublishResult, error) {
	jsonData, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return nil, &PublishError{Detail: "ошибка маршалинга запроса", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &PublishError{Detail: "ошибка создания запроса", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &PublishError{Detail: "Twitter API недоступен", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{StatusCode: resp.StatusCode, Detail: "ошибка чтения ответа", Err: err}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, body)
	}

	var response createTweetResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &PublishError{StatusCode: resp.StatusCode, Detail: "ошибка парсинга ответа", Err: err}
	}

	return &PublishResult{
		Success: true,
		TweetID: response.Data.ID,
	}, nil
}

// classifyError превращает ответ Twitter API в различимую ошибку публикации
func classifyError(statusCode int, body []byte) error {
	detail := errorDetail(body)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &PublishError{StatusCode: statusCode, Detail: detail, Err: ErrRateLimited}
	case statusCode == http.StatusForbidden && strings.Contains(strings.ToLower(detail), "duplicate"):
		return &PublishError{StatusCode: statusCode, Detail: detail, Err: ErrDuplicate}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &PublishError{StatusCode: statusCode, Detail: detail, Err: ErrUnauthorized}
	default:
		return &PublishError{StatusCode: statusCode, Detail: detail}
	}
}

// errorDetail извлекает человекочитаемое описание из тела ошибки
func errorDetail(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
			return apiErr.Errors[0].Message
		}
		if apiErr.Title != "" {
			return apiErr.Title
		}
	}
	return strings.TrimSpace(string(body))
}
