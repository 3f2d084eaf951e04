package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup настраивает логгер приложения: вывод одновременно в stdout
// и в файл logs.txt. Файл остаётся открытым на всё время жизни процесса.
func Setup(level string) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("неверный уровень логирования %q: %w", level, err)
	}
	log.SetLevel(parsedLevel)

	file, err := os.OpenFile("logs.txt", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))

	return log, nil
}
