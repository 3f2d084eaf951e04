package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"TweetBot/internal/news"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"

	// TweetLimit — максимальная длина твита на платформе
	TweetLimit = 280

	// bodyLimit — лимит текста без ссылки: 280 минус разделитель
	// и 23 символа ссылки, обёрнутой в t.co
	bodyLimit = 255

	urlWeight = 23
)

// Client представляет клиент для работы с Gemini API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient создает нового клиента Gemini
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// generate отправляет промпт в Gemini и возвращает текст первого кандидата
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	request := GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ошибка маршалинга запроса: %w", err)
	}

	requestURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API вернул статус %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response GenerateContentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("пустой ответ от Gemini")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// SelectArticle выбирает самую интересную новость из списка через Gemini.
// При любой проблеме с API или парсингом ответа возвращает первую новость,
// как самую свежую. Ошибка возможна только для пустого списка.
func (c *Client) SelectArticle(ctx context.Context, headlines []news.Headline) (news.Headline, error) {
	if len(headlines) == 0 {
		return news.Headline{}, &GenerationError{Reason: "нет новостей для выбора"}
	}
	if len(headlines) == 1 {
		return headlines[0], nil
	}

	response, err := c.generate(ctx, selectionPrompt(headlines))
	if err != nil {
		return headlines[0], nil
	}

	index, ok := parseSelection(response, len(headlines))
	if !ok {
		return headlines[0], nil
	}

	return headlines[index], nil
}

// GenerateTweet генерирует текст твита по выбранной новости.
// Сам следит за лимитом длины: модель не обязана его соблюдать,
// поэтому после одного повторного запроса текст обрезается жёстко.
func (c *Client) GenerateTweet(ctx context.Context, headline news.Headline) (string, error) {
	text, err := c.generate(ctx, tweetPrompt(headline))
	if err != nil {
		return "", &GenerationError{Reason: "запрос к Gemini не удался", Err: err}
	}

	text = cleanTweetText(text)
	if text == "" {
		return "", &GenerationError{Reason: "Gemini вернул пустой текст"}
	}
	if isRefusal(text) {
		return "", &GenerationError{Reason: "Gemini отказался генерировать твит"}
	}

	limit := bodyLimit
	if headline.URL == "" {
		limit = TweetLimit
	}

	// Один корректирующий запрос, дальше обрезаем сами
	if utf8.RuneCountInString(text) > limit {
		retry, err := c.generate(ctx, shortenPrompt(headline, limit))
		if err == nil {
			if shortened := cleanTweetText(retry); shortened != "" && !isRefusal(shortened) {
				text = shortened
			}
		}
	}
	if utf8.RuneCountInString(text) > limit {
		text = truncateRunes(text, limit)
	}

	if headline.URL != "" {
		text = text + "\n\n" + headline.URL
	}

	if TweetLength(text) > TweetLimit {
		return "", &GenerationError{Reason: fmt.Sprintf("твит превышает лимит даже после обрезки: %d", TweetLength(text))}
	}

	return text, nil
}

// selectionPrompt строит промпт для выбора лучшей статьи
func selectionPrompt(headlines []news.Headline) string {
	var sb strings.Builder
	for i, h := range headlines {
		sb.WriteString(fmt.Sprintf("Article %d:\nTitle: %s\nSource: %s\nDescription: %s\n\n",
			i+1, h.Title, h.Source, h.Description))
	}

	return fmt.Sprintf(`Below are %d recent technology news articles.

%s
Please analyze these articles and select the SINGLE most interesting, significant, or impactful tech story.
Consider factors like innovation, potential impact, and general public interest.

Return only the number of your selected article (1-%d) followed by a brief explanation.
Format: "Selected Article: [NUMBER]
Explanation: [WHY THIS IS SIGNIFICANT]"`,
		len(headlines), sb.String(), len(headlines))
}

// tweetPrompt строит промпт для генерации твита
func tweetPrompt(h news.Headline) string {
	return fmt.Sprintf(`Generate a high-quality tweet about this tech news article:

Title: %s
Description: %s
Source: %s

Requirements:
- Keep it under 270 characters to leave room for a URL
- Make it engaging, informative and conversation-starting
- Include 1-2 relevant hashtags
- Write in a professional but approachable tone
- End with a call-to-action like "Read more" or ask a question
- DO NOT include 'RT' or any indication this is AI-generated
- DO NOT include the URL (it will be added separately)

Just provide the tweet text with no additional commentary.`,
		h.Title, h.Description, h.Source)
}

// shortenPrompt строит повторный промпт, когда первый твит вышел длиннее лимита
func shortenPrompt(h news.Headline, limit int) string {
	return fmt.Sprintf(`The previous tweet you wrote about this article was too long.

Title: %s
Description: %s

Write a shorter version: strictly under %d characters, 1 hashtag, no URL.
Just provide the tweet text with no additional commentary.`,
		h.Title, h.Description, limit)
}

// parseSelection извлекает номер выбранной статьи из ответа модели
func parseSelection(response string, count int) (int, bool) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Selected Article:") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, "Selected Article:"))
		raw = strings.Trim(raw, "[].,")
		num, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if num >= 1 && num <= count {
			return num - 1, true
		}
	}
	return 0, false
}

// cleanTweetText убирает обрамление, которое модель любит добавлять
func cleanTweetText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.Trim(text, "\"")
	return strings.TrimSpace(text)
}

// isRefusal проверяет, отказалась ли модель генерировать текст
func isRefusal(text string) bool {
	refusalPhrases := []string{
		"i cannot",
		"i can't",
		"i am unable",
		"i'm unable",
		"as an ai",
		"as a language model",
		"не могу помочь",
		"я не могу",
	}

	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// TweetLength считает длину твита так, как её считает платформа:
// каждая ссылка заменяется на 23 символа обёртки t.co
func TweetLength(text string) int {
	withoutURLs := urlPattern.ReplaceAllString(text, "")
	urlCount := len(urlPattern.FindAllString(text, -1))
	return utf8.RuneCountInString(withoutURLs) + urlCount*urlWeight
}

// truncateRunes обрезает текст до limit рун по границе руны
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
