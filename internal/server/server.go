package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"TweetBot/internal/pipeline"
	"TweetBot/internal/twitter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Runner выполняет один запуск конвейера
type Runner interface {
	Run(ctx context.Context) *pipeline.RunResult
}

// Server представляет HTTP-режим бота: лайвнесс-проверки
// и запуск конвейера по POST /post-tweet
type Server struct {
	engine *gin.Engine
	runner Runner
	log    *logrus.Logger
}

// New создает HTTP-сервер поверх конвейера
func New(runner Runner, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		runner: runner,
		log:    log,
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/post-tweet", s.handlePostTweet)

	return s
}

// Handler возвращает http.Handler для запуска через http.Server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK,
		"Twitter bot API работает! Отправьте POST /post-tweet для запуска. Текущее время: %s",
		time.Now().Format("2006-01-02 15:04:05"))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handlePostTweet(c *gin.Context) {
	s.log.Info("🌐 Запуск конвейера по HTTP-запросу")

	result := s.runner.Run(c.Request.Context())
	if result.Failed() {
		status := http.StatusBadGateway
		if errors.Is(result.Err, twitter.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"run_id":       result.RunID,
			"failed_stage": result.FailedStage,
			"error":        result.Err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":   result.RunID,
		"article":  result.Headline.Title,
		"tweet":    result.TweetText,
		"tweet_id": result.Publication.TweetID,
	})
}
