package pipeline

import (
	"context"
	"fmt"

	"TweetBot/internal/news"
	"TweetBot/internal/twitter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Имена этапов запуска
const (
	StageFetch    = "fetch"
	StageGenerate = "generate"
	StagePublish  = "publish"
)

// Fetcher получает свежие заголовки
type Fetcher interface {
	FetchTopHeadlines(ctx context.Context) ([]news.Headline, error)
}

// Generator выбирает статью и генерирует текст твита
type Generator interface {
	SelectArticle(ctx context.Context, headlines []news.Headline) (news.Headline, error)
	GenerateTweet(ctx context.Context, headline news.Headline) (string, error)
}

// Publisher публикует готовый твит
type Publisher interface {
	PublishTweet(ctx context.Context, text string) (*twitter.PublishResult, error)
}

// Notifier отправляет итог запуска в мессенджер
type Notifier interface {
	NotifySuccess(result *twitter.PublishResult, tweetText string) error
	NotifyFailure(stage string, err error) error
}

// RunResult представляет итог одного запуска конвейера
type RunResult struct {
	RunID       string                 `json:"run_id"`
	Headline    news.Headline          `json:"headline"`
	TweetText   string                 `json:"tweet_text,omitempty"`
	Publication *twitter.PublishResult `json:"publication,omitempty"`
	FailedStage string                 `json:"failed_stage,omitempty"`
	Err         error                  `json:"-"`
}

// Failed сообщает, провалился ли запуск на этапах 1-3
func (r *RunResult) Failed() bool {
	return r.Err != nil
}

// Pipeline выполняет один запуск: новости -> твит -> публикация -> уведомление.
// Этапы идут строго по порядку, любая ошибка этапов 1-3 прерывает запуск.
// Ошибка уведомления логируется и не влияет на итог.
type Pipeline struct {
	fetcher   Fetcher
	generator Generator
	publisher Publisher
	notifier  Notifier
	log       *logrus.Logger
}

// New создает новый конвейер
func New(fetcher Fetcher, generator Generator, publisher Publisher, notifier Notifier, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		generator: generator,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
	}
}

// Run выполняет один проход конвейера
func (p *Pipeline) Run(ctx context.Context) *RunResult {
	result := &RunResult{RunID: uuid.NewString()}
	log := p.log.WithField("run_id", result.RunID)

	// Этап 1: получение новостей
	log.Info("📰 Получаем свежие новости...")
	headlines, err := p.fetcher.FetchTopHeadlines(ctx)
	if err == nil && len(headlines) == 0 {
		err = &news.FetchError{Reason: "пустой список статей", Err: news.ErrNoHeadlines}
	}
	if err != nil {
		return p.fail(result, StageFetch, err)
	}
	log.Infof("✅ Получено новостей: %d", len(headlines))

	// Выбор статьи: ошибка выбора нефатальна, берём самую свежую
	headline, err := p.generator.SelectArticle(ctx, headlines)
	if err != nil {
		log.Warnf("⚠️ Не удалось выбрать статью, берём первую: %v", err)
		headline = headlines[0]
	}
	result.Headline = headline
	log.Infof("🎯 Выбрана статья: %s (%s)", headline.Title, headline.Source)

	// Этап 2: генерация твита
	log.Info("✍️ Генерируем текст твита...")
	tweetText, err := p.generator.GenerateTweet(ctx, headline)
	if err != nil {
		return p.fail(result, StageGenerate, err)
	}
	result.TweetText = tweetText

	// Этап 3: публикация
	log.Info("🚀 Публикуем твит...")
	publication, err := p.publisher.PublishTweet(ctx, tweetText)
	if err != nil {
		return p.fail(result, StagePublish, err)
	}
	result.Publication = publication
	log.Infof("✅ Твит опубликован: %s", publication.TweetID)

	// Этап 4: уведомление, ошибки не меняют итог запуска
	if notifyErr := p.notifier.NotifySuccess(publication, tweetText); notifyErr != nil {
		log.Warnf("⚠️ Уведомление не отправлено: %v", notifyErr)
	}

	return result
}

// fail фиксирует провал этапа и отправляет уведомление об ошибке
func (p *Pipeline) fail(result *RunResult, stage string, err error) *RunResult {
	result.FailedStage = stage
	result.Err = fmt.Errorf("этап %s: %w", stage, err)

	p.log.WithField("run_id", result.RunID).Errorf("❌ Запуск прерван на этапе %s: %v", stage, err)

	if notifyErr := p.notifier.NotifyFailure(stage, err); notifyErr != nil {
		p.log.WithField("run_id", result.RunID).Warnf("⚠️ Уведомление об ошибке не отправлено: %v", notifyErr)
	}

	return result
}
