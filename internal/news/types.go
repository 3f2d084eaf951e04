package news

import (
	"errors"
	"fmt"
	"time"
)

// Headline представляет один новостной заголовок из NewsAPI
type Headline struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// ErrNoHeadlines возвращается, когда NewsAPI не вернул ни одной подходящей новости
var ErrNoHeadlines = errors.New("свежие новости не найдены")

// FetchError описывает ошибку этапа получения новостей.
// Оборачивает сетевые ошибки, неуспешные статусы и пустой результат.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ошибка получения новостей: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ошибка получения новостей: %s", e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
