package logger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5/middleware"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel задает минимальный уровень логирования
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// ParseLevel переводит строку из конфига в уровень, по умолчанию LevelInfo
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "debug") {
		return LevelDebug
	}
	return LevelInfo
}

func Debug(ctx context.Context, msg string, fields ...any) {
	if Level(currentLevel.Load()) > LevelDebug {
		return
	}
	log.Printf("[DEBUG] %s%s", msg, formatFields(ctx, fields))
}

func Info(ctx context.Context, msg string, fields ...any) {
	log.Printf("[INFO] %s%s", msg, formatFields(ctx, fields))
}

// Error пишет сообщение и ошибку (если она есть) в формате "msg: err"
func Error(ctx context.Context, err error, msg string, fields ...any) {
	if err != nil {
		log.Printf("[ERROR] %s: %v%s", msg, err, formatFields(ctx, fields))
		return
	}
	log.Printf("[ERROR] %s%s", msg, formatFields(ctx, fields))
}

func formatFields(ctx context.Context, fields []any) string {
	var b strings.Builder
	if ctx != nil {
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			fmt.Fprintf(&b, " request_id=%s", reqID)
		}
	}
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
		} else {
			// Непарный ключ
			fmt.Fprintf(&b, " %v=?", fields[i])
		}
	}
	return b.String()
}
