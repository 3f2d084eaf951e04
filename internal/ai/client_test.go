package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TweetBot/internal/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeadline() news.Headline {
	return news.Headline{
		Title:       "New chip doubles AI inference speed",
		Description: "A startup unveiled a chip that doubles inference throughput.",
		Source:      "TechWire",
		URL:         "https://example.com/chip",
	}
}

func geminiResponse(text string) string {
	return fmt.Sprintf(`{"candidates": [{"content": {"parts": [{"text": %q}]}, "finishReason": "STOP"}]}`, text)
}

func newTestClient(serverURL string) *Client {
	client := NewClient("test-key", "gemini-1.5-pro")
	client.baseURL = serverURL
	return client
}

func TestGenerateTweet_WithinLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Contains(t, r.URL.Path, "gemini-1.5-pro:generateContent")
		fmt.Fprint(w, geminiResponse("AI chips just got twice as fast. What will you build? #AI #TechNews Read more:"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	tweet, err := client.GenerateTweet(context.Background(), sampleHeadline())

	require.NoError(t, err)
	assert.NotEmpty(t, tweet)
	assert.LessOrEqual(t, TweetLength(tweet), TweetLimit)
	assert.True(t, strings.HasSuffix(tweet, "https://example.com/chip"))
}

func TestGenerateTweet_OverlongIsTruncated(t *testing.T) {
	longText := strings.Repeat("very long tweet text ", 30)
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, geminiResponse(longText))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	tweet, err := client.GenerateTweet(context.Background(), sampleHeadline())

	require.NoError(t, err)
	// Первый запрос плюс один корректирующий, не больше
	assert.Equal(t, 2, requests)
	assert.LessOrEqual(t, TweetLength(tweet), TweetLimit)
	assert.True(t, strings.HasSuffix(tweet, "https://example.com/chip"))
}

func TestGenerateTweet_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTweet(context.Background(), sampleHeadline())

	require.Error(t, err)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerateTweet_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "quota exceeded"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTweet(context.Background(), sampleHeadline())

	require.Error(t, err)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateTweet_Refusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse("As an AI, I cannot write promotional content about this topic."))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTweet(context.Background(), sampleHeadline())

	require.Error(t, err)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestSelectArticle_ParsesSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse("Selected Article: 2\nExplanation: broad impact on the industry."))
	}))
	defer server.Close()

	headlines := []news.Headline{
		{Title: "First"},
		{Title: "Second"},
		{Title: "Third"},
	}

	client := newTestClient(server.URL)
	selected, err := client.SelectArticle(context.Background(), headlines)

	require.NoError(t, err)
	assert.Equal(t, "Second", selected.Title)
}

func TestSelectArticle_MalformedFallsBackToFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse("I would pick the second one, probably."))
	}))
	defer server.Close()

	headlines := []news.Headline{{Title: "First"}, {Title: "Second"}}

	client := newTestClient(server.URL)
	selected, err := client.SelectArticle(context.Background(), headlines)

	require.NoError(t, err)
	assert.Equal(t, "First", selected.Title)
}

func TestSelectArticle_APIErrorFallsBackToFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	headlines := []news.Headline{{Title: "First"}, {Title: "Second"}}

	client := newTestClient(server.URL)
	selected, err := client.SelectArticle(context.Background(), headlines)

	require.NoError(t, err)
	assert.Equal(t, "First", selected.Title)
}

func TestSelectArticle_EmptyList(t *testing.T) {
	client := NewClient("test-key", "gemini-1.5-pro")
	_, err := client.SelectArticle(context.Background(), nil)
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	index, ok := parseSelection("Selected Article: 3\nExplanation: because", 5)
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	_, ok = parseSelection("Selected Article: 9", 5)
	assert.False(t, ok)

	_, ok = parseSelection("no selection here", 5)
	assert.False(t, ok)
}

func TestTweetLength_URLCountsAs23(t *testing.T) {
	text := "Check this out\n\nhttps://example.com/some/very/long/path/that/keeps/going"
	// 14 + 2 перевода строки + 23 за ссылку
	assert.Equal(t, 14+2+23, TweetLength(text))

	assert.Equal(t, 5, TweetLength("hello"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))

	truncated := truncateRunes(strings.Repeat("слово ", 100), 50)
	assert.LessOrEqual(t, len([]rune(truncated)), 50)
	assert.True(t, strings.HasSuffix(truncated, "…"))
}
