package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"TweetBot/internal/news"
	"TweetBot/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// inactivityTimeout — через сколько бот выключается без активности пользователя
const inactivityTimeout = 15 * time.Minute

// Bot представляет интерактивный режим: твит генерируется по команде
// и публикуется только после подтверждения пользователя
type Bot struct {
	api       *tgbotapi.BotAPI
	fetcher   pipeline.Fetcher
	generator pipeline.Generator
	publisher pipeline.Publisher
	chatID    int64
	log       *logrus.Logger

	articles     []news.Headline
	usedIndices  map[int]bool
	currentTweet string
	lastActivity time.Time
}

// New создает нового интерактивного бота.
// Бот отвечает только в чате с указанным ID.
func New(token string, chatID int64, fetcher pipeline.Fetcher, generator pipeline.Generator, publisher pipeline.Publisher, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %w", err)
	}

	return &Bot{
		api:         api,
		fetcher:     fetcher,
		generator:   generator,
		publisher:   publisher,
		chatID:      chatID,
		log:         log,
		usedIndices: make(map[int]bool),
	}, nil
}

// Start запускает цикл обработки сообщений.
// Возвращается после публикации твита, команды exit,
// 15 минут без активности или отмены контекста.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.lastActivity = time.Now()
	b.log.Infof("🤖 Бот запущен: @%s", b.api.Self.UserName)
	b.sendMessage("🤖 Twitter бот запущен. Используйте /tweet для генерации.\nБот выключится после 15 минут без активности.")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if update.Message.Chat.ID != b.chatID {
				continue
			}
			b.lastActivity = time.Now()
			if done := b.handleMessage(ctx, update.Message); done {
				return nil
			}
		case <-ticker.C:
			if time.Since(b.lastActivity) >= inactivityTimeout {
				b.log.Warn("⏱️ 15 минут без активности, выключаемся")
				b.sendMessage("⏱️ Бот выключен после 15 минут без активности.")
				return nil
			}
		case <-ctx.Done():
			b.sendMessage("⚠️ Бот остановлен.")
			return ctx.Err()
		}
	}
}

// handleMessage обрабатывает одно сообщение. Возвращает true, когда пора выключаться.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) bool {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart()
		case "help":
			b.handleHelp()
		case "tweet":
			b.handleTweet(ctx)
		default:
			b.sendMessage("❌ Неизвестная команда. Используйте /help для списка команд.")
		}
		return false
	}

	return b.handleReply(ctx, msg.Text)
}

// handleTweet подбирает статью и генерирует превью твита
func (b *Bot) handleTweet(ctx context.Context) {
	b.sendMessage("🔍 Ищу свежие новости...")

	// Загружаем статьи, если их нет или все уже показаны
	if len(b.articles) == 0 || len(b.usedIndices) >= len(b.articles) {
		articles, err := b.fetcher.FetchTopHeadlines(ctx)
		if err != nil {
			b.log.Errorf("❌ Ошибка получения новостей: %v", err)
			b.sendMessage("❌ Не удалось получить новости. Попробуйте позже.")
			return
		}
		b.articles = articles
		b.usedIndices = make(map[int]bool)
	}

	index, ok := pickUnused(len(b.articles), b.usedIndices)
	if !ok {
		b.sendMessage("❌ Нет доступных статей. Попробуйте позже.")
		return
	}
	b.usedIndices[index] = true
	article := b.articles[index]

	b.sendMessage(fmt.Sprintf(
		"📰 *Статья %d из %d:*\n\n*Заголовок:* %s\n*Источник:* %s\n*Описание:* %s\n*Ссылка:* %s",
		index+1, len(b.articles), article.Title, article.Source, article.Description, article.URL))
	b.sendMessage("⏳ Генерирую текст твита...")

	tweet, err := b.generator.GenerateTweet(ctx, article)
	if err != nil {
		b.log.Errorf("❌ Ошибка генерации: %v", err)
		b.sendMessage("❌ Не удалось сгенерировать твит. Напишите 'new' для другой статьи или 'exit' для выхода.")
		return
	}
	b.currentTweet = tweet

	b.sendMessage(fmt.Sprintf(
		"✏️ *Сгенерированный твит:*\n\n%s\n\nВарианты:\n- 'post' — опубликовать\n- 'new' — другая статья\n- 'exit' — выйти без публикации",
		tweet))
}

// handleReply обрабатывает ответ пользователя на превью твита.
// Возвращает true, когда бот должен выключиться.
func (b *Bot) handleReply(ctx context.Context, text string) bool {
	if b.currentTweet == "" {
		b.sendMessage("Сначала используйте /tweet для генерации твита.")
		return false
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "post":
		b.sendMessage("🚀 Публикую твит...")
		result, err := b.publisher.PublishTweet(ctx, b.currentTweet)
		if err != nil {
			b.log.Errorf("❌ Ошибка публикации: %v", err)
			b.sendMessage(fmt.Sprintf("❌ Ошибка публикации: %v", err))
			return false
		}
		b.currentTweet = ""
		b.log.Infof("✅ Твит опубликован: %s", result.TweetID)
		b.sendMessage(fmt.Sprintf("✅ Твит опубликован! ID: %s\nБот выключается.", result.TweetID))
		return true

	case "new":
		b.sendMessage("🔍 Ищу другую статью...")
		b.handleTweet(ctx)
		return false

	case "exit":
		b.currentTweet = ""
		b.sendMessage("👋 Генерация отменена. Бот выключается.")
		return true

	default:
		b.sendMessage("Выберите один из вариантов:\n- 'post' — опубликовать твит\n- 'new' — сгенерировать новый\n- 'exit' — отменить")
		return false
	}
}

// pickUnused выбирает случайный ещё не показанный индекс статьи
func pickUnused(total int, used map[int]bool) (int, bool) {
	var available []int
	for i := 0; i < total; i++ {
		if !used[i] {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[rand.Intn(len(available))], true
}

// sendMessage отправляет сообщение в рабочий чат
func (b *Bot) sendMessage(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		b.log.Warnf("⚠️ Ошибка отправки сообщения: %v", err)
	}
}

func (b *Bot) handleStart() {
	b.sendMessage(`👋 *Добро пожаловать в Twitter бота!*

Я подбираю свежие новости, генерирую твит через Gemini и публикую его после вашего подтверждения.

📋 *Команды:*
/tweet - сгенерировать твит
/help - справка`)
}

func (b *Bot) handleHelp() {
	b.sendMessage(`📖 *Справка*

*/tweet* - найти новость и сгенерировать твит

Когда твит сгенерирован, ответьте:
- 'post' — опубликовать
- 'new' — сгенерировать по другой статье
- 'exit' — отменить

⏱️ Бот выключается после 15 минут без активности.`)
}
