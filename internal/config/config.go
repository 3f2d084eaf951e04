package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config хранит все настройки приложения, загруженные из переменных окружения.
// Загружается один раз при старте и не меняется в течение жизни процесса.
// Значения учетных данных никогда не пишутся в логи.
type Config struct {
	Twitter  TwitterConfig
	Telegram TelegramConfig
	News     NewsConfig
	Gemini   GeminiConfig
	Server   ServerConfig
}

// TwitterConfig содержит учетные данные приложения Twitter/X
type TwitterConfig struct {
	BearerToken       string
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// TelegramConfig содержит токен бота и ID чата для уведомлений
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// NewsConfig содержит параметры запроса к NewsAPI
type NewsConfig struct {
	APIKey   string
	Category string
	Language string
	PageSize int
}

// GeminiConfig содержит ключ и модель для Gemini API
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ServerConfig содержит адрес HTTP-сервера для режима -serve
type ServerConfig struct {
	Address string
}

// Load читает конфигурацию из переменных окружения.
// Переменные .env должны быть загружены через godotenv до вызова Load.
func Load() (*Config, error) {
	cfg := &Config{
		Twitter: TwitterConfig{
			BearerToken:       os.Getenv("BEARER_TOKEN"),
			ConsumerKey:       os.Getenv("CONSUMER_KEY"),
			ConsumerSecret:    os.Getenv("CONSUMER_SECRET"),
			AccessToken:       os.Getenv("ACCESS_TOKEN"),
			AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_TOKEN"),
		},
		News: NewsConfig{
			APIKey:   os.Getenv("NEWS_API_KEY"),
			Category: getEnv("NEWS_CATEGORY", "technology"),
			Language: getEnv("NEWS_LANGUAGE", "en"),
			PageSize: 15,
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		},
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
	}

	if rawChatID := os.Getenv("TELEGRAM_CHAT_ID"); rawChatID != "" {
		chatID, err := strconv.ParseInt(rawChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("неверный TELEGRAM_CHAT_ID %q: %w", rawChatID, err)
		}
		cfg.Telegram.ChatID = chatID
	}

	if rawPageSize := os.Getenv("NEWS_PAGE_SIZE"); rawPageSize != "" {
		pageSize, err := strconv.Atoi(rawPageSize)
		if err != nil {
			return nil, fmt.Errorf("неверный NEWS_PAGE_SIZE %q: %w", rawPageSize, err)
		}
		cfg.News.PageSize = pageSize
	}

	return cfg, nil
}

// Validate проверяет, что все обязательные переменные установлены.
// Возвращает ошибку с именем первой отсутствующей переменной.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"BEARER_TOKEN", c.Twitter.BearerToken},
		{"CONSUMER_KEY", c.Twitter.ConsumerKey},
		{"CONSUMER_SECRET", c.Twitter.ConsumerSecret},
		{"ACCESS_TOKEN", c.Twitter.AccessToken},
		{"ACCESS_TOKEN_SECRET", c.Twitter.AccessTokenSecret},
		{"TELEGRAM_TOKEN", c.Telegram.Token},
		{"NEWS_API_KEY", c.News.APIKey},
		{"GEMINI_API_KEY", c.Gemini.APIKey},
	}

	for _, v := range required {
		if v.value == "" {
			return fmt.Errorf("%s не установлен в .env файле", v.name)
		}
	}

	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID не установлен в .env файле")
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE должен быть от 1 до 100, получено %d", c.News.PageSize)
	}
	if !validCategories[c.News.Category] {
		return fmt.Errorf("неизвестная категория NewsAPI: %s", c.News.Category)
	}

	return nil
}

// validCategories содержит категории, которые принимает NewsAPI top-headlines
var validCategories = map[string]bool{
	"business":      true,
	"entertainment": true,
	"general":       true,
	"health":        true,
	"science":       true,
	"sports":        true,
	"technology":    true,
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
