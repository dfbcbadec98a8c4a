package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init используется логгер logrus по умолчанию, чтобы пакеты
// ядра можно было использовать в тестах без инициализации.
var Log = logrus.New()

// Init инициализирует глобальный логгер из переменных окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	Configure(logLevel, os.Getenv("LOG_FORMAT"))
}

// Configure применяет уровень и формат логирования.
// "json" - для продакшена и сбора логов, всё остальное - текстовый вывод.
func Configure(logLevel, logFormat string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(logFormat) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// For возвращает запись с полем component.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
