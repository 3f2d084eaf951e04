package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string, pageSize int) *Client {
	client := NewClient("test-key", "technology", "en", pageSize)
	client.baseURL = serverURL
	return client
}

func TestFetchTopHeadlines_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "technology", r.URL.Query().Get("category"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"source": {"name": "Old Source"}, "title": "Older story", "description": "desc", "url": "https://example.com/old", "publishedAt": "2026-08-22T08:00:00Z"},
				{"source": {"name": "Fresh Source"}, "title": "Fresh story", "description": "desc", "url": "https://example.com/new", "publishedAt": "2026-08-23T10:00:00Z"},
				{"source": {"name": "Broken"}, "title": "", "description": "no title", "url": "https://example.com/broken", "publishedAt": "2026-08-23T11:00:00Z"}
			]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 15)
	headlines, err := client.FetchTopHeadlines(context.Background())

	require.NoError(t, err)
	require.Len(t, headlines, 2)
	assert.Equal(t, "Fresh story", headlines[0].Title)
	assert.Equal(t, "Fresh Source", headlines[0].Source)
	assert.Equal(t, "Older story", headlines[1].Title)
	assert.True(t, headlines[0].PublishedAt.After(headlines[1].PublishedAt))
}

func TestFetchTopHeadlines_TruncatesToPageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"source": {"name": "A"}, "title": "First", "description": "d", "url": "https://example.com/1", "publishedAt": "2026-08-23T10:00:00Z"},
				{"source": {"name": "B"}, "title": "Second", "description": "d", "url": "https://example.com/2", "publishedAt": "2026-08-23T09:00:00Z"},
				{"source": {"name": "C"}, "title": "Third", "description": "d", "url": "https://example.com/3", "publishedAt": "2026-08-23T08:00:00Z"}
			]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)
	headlines, err := client.FetchTopHeadlines(context.Background())

	require.NoError(t, err)
	require.Len(t, headlines, 2)
	assert.Equal(t, "First", headlines[0].Title)
	assert.Equal(t, "Second", headlines[1].Title)
}

func TestFetchTopHeadlines_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "ok", "totalResults": 0, "articles": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 15)
	headlines, err := client.FetchTopHeadlines(context.Background())

	assert.Nil(t, headlines)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHeadlines))

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestFetchTopHeadlines_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status": "error", "code": "apiKeyInvalid", "message": "bad key"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 15)
	_, err := client.FetchTopHeadlines(context.Background())

	require.Error(t, err)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Reason, "401")
}

func TestFetchTopHeadlines_ErrorStatusInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "error", "code": "rateLimited", "message": "too many requests"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 15)
	_, err := client.FetchTopHeadlines(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rateLimited")
}

func TestFetchTopHeadlines_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, 15)
	_, err := client.FetchTopHeadlines(context.Background())

	require.Error(t, err)
	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Hello world", cleanText("  Hello   <b>world</b>  "))
	assert.Equal(t, "", cleanText("<p></p>"))
	assert.Equal(t, "a b", cleanText("a\n\tb"))
}

func TestParseDate(t *testing.T) {
	parsed := parseDate("2026-08-23T10:00:00Z")
	assert.Equal(t, 2026, parsed.Year())

	assert.True(t, parseDate("").IsZero())
	assert.True(t, parseDate("not a date").IsZero())
}
