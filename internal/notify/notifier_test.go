package notify

import (
	"errors"
	"testing"

	"TweetBot/internal/twitter"

	"github.com/stretchr/testify/assert"
)

func TestFormatSuccess(t *testing.T) {
	result := &twitter.PublishResult{Success: true, TweetID: "123"}
	text := FormatSuccess(result, "tweet body")

	assert.Contains(t, text, "опубликован")
	assert.Contains(t, text, "https://twitter.com/i/status/123")
	assert.Contains(t, text, "tweet body")
}

func TestFormatSuccess_WithoutID(t *testing.T) {
	text := FormatSuccess(&twitter.PublishResult{Success: true}, "")

	assert.Contains(t, text, "опубликован")
	assert.NotContains(t, text, "status/")
}

func TestFormatFailure(t *testing.T) {
	text := FormatFailure("publish", errors.New("rate limit"))

	assert.Contains(t, text, "не удался")
	assert.Contains(t, text, "публикация твита")
	assert.Contains(t, text, "rate limit")
}

func TestFormatFailure_UnknownStage(t *testing.T) {
	text := FormatFailure("mystery", errors.New("boom"))
	assert.Contains(t, text, "mystery")
}
