// 包 logger：统一初始化与获取日志器；级别与输出格式由环境变量控制
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// 文档注释：初始化默认日志器
// 背景：服务与各 CLI 共用一套日志配置，LOG_LEVEL=debug|info|warn|error，LOG_FORMAT=json|text。
// 约束：输出固定为标准错误，标准输出留给 CLI 的数据流。
func Setup() *slog.Logger {
	l := New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

// New 按给定级别与格式构造日志器，不修改默认日志器
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel 未识别的级别回退到 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L 获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return Setup()
	}
	return l
}
