package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"weconnect/cmd/back/internal/app"
	"weconnect/internal/logger"

	"github.com/gorilla/mux"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Producer interface {
	PublishJSON(ctx context.Context, routingKey string, message interface{}) error
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Service  *app.Service
	Tokens   TokenIssuer
	Revoked  TokenRevoker // nil - отзыв токенов выключен
	Producer Producer     // nil - события не публикуются
	DB       Pinger
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)

	r.HandleFunc("/", s.root).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/token", s.login).Methods(http.MethodPost)
	r.Handle("/logout", s.auth(s.logout)).Methods(http.MethodPost)

	r.HandleFunc("/users/", s.register).Methods(http.MethodPost)
	r.Handle("/users/", s.auth(s.listUsers)).Methods(http.MethodGet)
	r.Handle("/users/me", s.auth(s.me)).Methods(http.MethodGet)
	r.Handle("/users/me", s.auth(s.deleteMe)).Methods(http.MethodDelete)
	r.Handle("/users/me/profile", s.auth(s.myProfile)).Methods(http.MethodGet)
	r.Handle("/users/{id:[0-9]+}/profile", s.auth(s.profile)).Methods(http.MethodGet)
	r.Handle("/users/{id:[0-9]+}/followers", s.auth(s.followers)).Methods(http.MethodGet)
	r.Handle("/users/{id:[0-9]+}/following", s.auth(s.following)).Methods(http.MethodGet)
	r.Handle("/users/{id:[0-9]+}/follow", s.auth(s.follow)).Methods(http.MethodPost)
	r.Handle("/users/{id:[0-9]+}/unfollow", s.auth(s.unfollow)).Methods(http.MethodPost)

	r.HandleFunc("/posts/", s.listPosts).Methods(http.MethodGet)
	r.Handle("/posts/", s.auth(s.createPost)).Methods(http.MethodPost)
	r.Handle("/posts/with_counts/", s.auth(s.feed)).Methods(http.MethodGet)
	r.Handle("/posts/mine", s.auth(s.myPosts)).Methods(http.MethodGet)
	r.Handle("/posts/user/{id:[0-9]+}", s.auth(s.userPosts)).Methods(http.MethodGet)
	r.Handle("/posts/{id:[0-9]+}", s.auth(s.deletePost)).Methods(http.MethodDelete)
	r.Handle("/posts/{id:[0-9]+}/like", s.auth(s.like)).Methods(http.MethodPost)
	r.Handle("/posts/{id:[0-9]+}/unlike", s.auth(s.unlike)).Methods(http.MethodPost)

	r.HandleFunc("/comments/{id:[0-9]+}", s.listComments).Methods(http.MethodGet)
	r.Handle("/comments/{id:[0-9]+}", s.auth(s.createComment)).Methods(http.MethodPost)
	r.Handle("/comments/{id:[0-9]+}", s.auth(s.updateComment)).Methods(http.MethodPut)
	r.Handle("/comments/{id:[0-9]+}", s.auth(s.deleteComment)).Methods(http.MethodDelete)

	return r
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Welcome to the API"})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error("healthz: db ping", "err", err)
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("OK"))
}

type errorBody struct {
	Detail string `json:"detail"`
}

// writeError: status-ошибки сервиса -> HTTP код через таблицу grpc-gateway,
// остальное - 500 без подробностей наружу
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.Internal || st.Code() == codes.Unknown {
		logger.FromContext(ctx).Error("internal error", "err", err)
		st = status.New(codes.Internal, "Internal server error")
	}
	if st.Code() == codes.Unauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(ctx, w, runtime.HTTPStatusFromCode(st.Code()), errorBody{Detail: st.Message()})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(ctx).Error("marshal response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logger.FromContext(ctx).Warn("write response", "err", err)
	}
}

// maxBodyBytes - потолок тела запроса; самое длинное поле (комментарий) на порядки меньше
const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return app.BadRequest("Request body too large")
		}
		return app.BadRequest("Invalid request body")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, app.BadRequest("Invalid id")
	}
	return id, nil
}

// page - skip/limit из query, limit по умолчанию 10
func page(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	skip, limit = 0, 10
	if v := q.Get("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil {
			return 0, 0, app.BadRequest("skip must be an integer")
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, app.BadRequest("limit must be an integer")
		}
	}
	return skip, limit, nil
}
