package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TweetBot/internal/ai"
	"TweetBot/internal/bot"
	"TweetBot/internal/config"
	"TweetBot/internal/logger"
	"TweetBot/internal/news"
	"TweetBot/internal/notify"
	"TweetBot/internal/pipeline"
	"TweetBot/internal/server"
	"TweetBot/internal/twitter"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	serveMode := flag.Bool("serve", false, "запустить HTTP-сервер вместо разового запуска")
	botMode := flag.Bool("bot", false, "запустить интерактивного Telegram бота")
	flag.Parse()

	// Загружаем переменные окружения; отсутствие .env не ошибка,
	// в проде переменные приходят из окружения планировщика
	_ = godotenv.Load()

	log, err := logger.Setup(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка настройки логгера: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Неверная конфигурация: %v", err)
	}
	log.Info("✅ Конфигурация загружена")

	// Собираем клиентов конвейера
	newsClient := news.NewClient(cfg.News.APIKey, cfg.News.Category, cfg.News.Language, cfg.News.PageSize)
	aiClient := ai.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	twitterClient := twitter.NewClient(
		cfg.Twitter.ConsumerKey,
		cfg.Twitter.ConsumerSecret,
		cfg.Twitter.AccessToken,
		cfg.Twitter.AccessTokenSecret,
	)

	switch {
	case *botMode:
		runBot(cfg, newsClient, aiClient, twitterClient, log)
	case *serveMode:
		runServer(cfg, newsClient, aiClient, twitterClient, log)
	default:
		runOnce(cfg, newsClient, aiClient, twitterClient, log)
	}
}

// runOnce выполняет один проход конвейера и завершает процесс.
// Код возврата 0 при успешной публикации, 1 при ошибке этапов 1-3.
func runOnce(cfg *config.Config, newsClient *news.Client, aiClient *ai.Client, twitterClient *twitter.Client, log *logrus.Logger) {
	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("❌ Ошибка создания нотификатора: %v", err)
	}

	p := pipeline.New(newsClient, aiClient, twitterClient, notifier, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := p.Run(ctx)
	if result.Failed() {
		log.Errorf("❌ Запуск завершился ошибкой: %v", result.Err)
		os.Exit(1)
	}

	log.Infof("🎉 Запуск завершён успешно, твит: %s", result.Publication.TweetID)
}

// runServer запускает HTTP-режим с graceful shutdown
func runServer(cfg *config.Config, newsClient *news.Client, aiClient *ai.Client, twitterClient *twitter.Client, log *logrus.Logger) {
	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("❌ Ошибка создания нотификатора: %v", err)
	}

	p := pipeline.New(newsClient, aiClient, twitterClient, notifier, log)
	srv := server.New(p, log)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Handler(),
	}

	go func() {
		log.Infof("🌐 HTTP-сервер запущен на %s", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Ошибка HTTP-сервера: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Infof("⏹️ Получен сигнал %s, останавливаемся", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("❌ Ошибка остановки сервера: %v", err)
	}
	log.Info("✅ Сервер остановлен")
}

// runBot запускает интерактивного бота с подтверждением публикации
func runBot(cfg *config.Config, newsClient *news.Client, aiClient *ai.Client, twitterClient *twitter.Client, log *logrus.Logger) {
	telegramBot, err := bot.New(cfg.Telegram.Token, cfg.Telegram.ChatID, newsClient, aiClient, twitterClient, log)
	if err != nil {
		log.Fatalf("❌ Ошибка создания бота: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ Ошибка работы бота: %v", err)
	}
	log.Info("✅ Бот остановлен")
}
