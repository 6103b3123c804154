package httputils

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/envutils"
)

const HANDLER_GROUP_TAG = `group:"handlers"`

type Handler interface {
	OnRouter(http.Handler)
}

func AsHandler(groupTag string, handler any) any {
	return fx.Annotate(handler, fx.ResultTags(groupTag), fx.As(new(Handler)))
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, errorMessage ...string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Message: strings.Join(errorMessage, " "),
	})
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(payload)
}

type NewRouterParams struct {
	fx.In

	Handlers []Handler `group:"handlers"`
}

func NewRouter(params NewRouterParams) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	for _, handler := range params.Handlers {
		handler.OnRouter(router)
	}
	return router
}

type ServerConfig struct {
	Host string
	Port string
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Host: envutils.Env("HTTP_HOST", "0.0.0.0"),
		Port: envutils.Env("HTTP_PORT", "8080"),
	}
}

type StartServerParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	Config *ServerConfig
	Router *chi.Mux
	Logger *zap.Logger
}

func StartServer(params StartServerParams) {
	server := &http.Server{
		Addr:              params.Config.Addr(),
		Handler:           params.Router,
		ReadHeaderTimeout: time.Second * 10,
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			params.Logger.Info("http server listening", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					params.Logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
