package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"weconnect/internal/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CORS открыт для всех источников, как и раньше у фронтенда
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithLogger кладет логгер в контекст каждого запроса
func WithLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), log)))
		})
	}
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		log := logger.FromContext(r.Context())

		defer func() {
			if p := recover(); p != nil {
				log.Error("panic in handler", "panic", p, "stack", string(debug.Stack()))
				// ответ уже начат - дописать статус нельзя
				if !rw.wroteHeader {
					writeError(r.Context(), rw, status.Error(codes.Internal, fmt.Sprint(p)))
				}
			}
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rw, r)
	})
}
