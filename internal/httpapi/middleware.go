package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

type ctxKey int

const userKey ctxKey = iota

// userFrom возвращает пользователя, которого положил authenticate.
func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// authenticate пропускает запрос дальше только с действующим токеном.
func (s *server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// схема не проверяется, токеном считается второе слово заголовка
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) < 2 {
			writeError(w, r, errNoToken)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), parts[1])
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if origin != "*" {
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder запоминает код ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// routeUnmatched — метка маршрута для ответов 404 и 405.
// Сырой путь в метку не попадает, чтобы не плодить ряды.
const routeUnmatched = "unmatched"

// instrument пишет строку лога и метрики по каждому запросу, включая несовпавшие маршруты.
func (s *server) instrument(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeUnmatched
		var match mux.RouteMatch
		if router.Match(r, &match) && match.MatchErr == nil && match.Route != nil {
			if tmpl, err := match.Route.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		s.metrics.RequestsInFlight.Inc()
		defer s.metrics.RequestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		router.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration", elapsed.Round(time.Microsecond),
		)
	})
}
