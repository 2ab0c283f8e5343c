package logger

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger 初始化全局日志记录器
// JSON格式输出到stdout，级别由LOG_LEVEL环境变量控制，默认info
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	logger := slog.New(handler).With("service", "assessment-service")
	slog.SetDefault(logger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
