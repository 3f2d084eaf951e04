package notify

import (
	"fmt"

	"TweetBot/internal/twitter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifyError описывает ошибку отправки уведомления.
// Нефатальна: вызывающая сторона логирует её и продолжает работу.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("ошибка отправки уведомления: %v", e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Notifier отправляет уведомления о результатах запуска в Telegram чат
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New создает нового нотификатора для указанного чата
func New(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram бота: %w", err)
	}

	return &Notifier{
		api:    api,
		chatID: chatID,
	}, nil
}

// NotifySuccess отправляет уведомление об успешной публикации
func (n *Notifier) NotifySuccess(result *twitter.PublishResult, tweetText string) error {
	return n.send(FormatSuccess(result, tweetText))
}

// NotifyFailure отправляет уведомление о проваленном этапе запуска
func (n *Notifier) NotifyFailure(stage string, err error) error {
	return n.send(FormatFailure(stage, err))
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return &NotifyError{Err: err}
	}
	return nil
}

// FormatSuccess форматирует сообщение об успешной публикации
func FormatSuccess(result *twitter.PublishResult, tweetText string) string {
	text := "✅ *Твит опубликован!*"
	if result != nil && result.TweetID != "" {
		text += fmt.Sprintf("\n\n🔗 https://twitter.com/i/status/%s", result.TweetID)
	}
	if tweetText != "" {
		text += fmt.Sprintf("\n\n📝 Текст:\n%s", tweetText)
	}
	return text
}

// FormatFailure форматирует сообщение о проваленном этапе
func FormatFailure(stage string, err error) string {
	return fmt.Sprintf("❌ *Запуск не удался*\n\nЭтап: %s\nОшибка: %v", stageTitle(stage), err)
}

// stageTitle переводит машинное имя этапа в человекочитаемое
func stageTitle(stage string) string {
	switch stage {
	case "fetch":
		return "получение новостей"
	case "generate":
		return "генерация твита"
	case "publish":
		return "публикация твита"
	default:
		return stage
	}
}
