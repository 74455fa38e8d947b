package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/metrics"
	"github.com/letsssgooo/quizServer/internal/quiz"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

// Deps — зависимости HTTP API
type Deps struct {
	Auth       *auth.Service
	Engine     *quiz.Engine
	Metrics    *metrics.Metrics
	CORSOrigin string
}

type server struct {
	auth    *auth.Service
	engine  *quiz.Engine
	metrics *metrics.Metrics
}

// NewRouter собирает обработчик всех маршрутов API.
func NewRouter(deps Deps) http.Handler {
	s := &server{
		auth:    deps.Auth,
		engine:  deps.Engine,
		metrics: deps.Metrics,
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotAllowed)
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// у закрытых маршрутов свои пути, иначе несовпадение метода на открытом маршруте превращается в 404
	private := func(h http.HandlerFunc) http.Handler {
		return s.authenticate(h)
	}
	api.Handle("/auth/me", private(s.handleMe)).Methods(http.MethodGet)
	api.Handle("/categories", private(s.handleCategories)).Methods(http.MethodGet)
	api.Handle("/categories/{categoryId}/tests", private(s.handleCategoryTests)).Methods(http.MethodGet)
	api.Handle("/tests/{testId}", private(s.handleTest)).Methods(http.MethodGet)
	api.Handle("/tests/{testId}/questions", private(s.handleQuestions)).Methods(http.MethodGet)
	api.Handle("/tests/{testId}/submit", private(s.handleSubmit)).Methods(http.MethodPost)
	api.Handle("/tests/{testId}/results", private(s.handleResult)).Methods(http.MethodGet)
	api.Handle("/test-results", private(s.handleResults)).Methods(http.MethodGet)
	api.Handle("/test-results/export", private(s.handleExport)).Methods(http.MethodGet)

	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	return cors(origin, s.instrument(r))
}
