package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	handler "github.com/romashorodok/html-parser/backend/internal/handler/v1"
	"github.com/romashorodok/html-parser/backend/internal/service"
	"github.com/romashorodok/html-parser/backend/internal/storage"
	"github.com/romashorodok/html-parser/backend/internal/worker"
	"github.com/romashorodok/html-parser/pkg/envutils"
	"github.com/romashorodok/html-parser/pkg/httputils"
	"github.com/romashorodok/html-parser/pkg/logutils"
	"github.com/romashorodok/html-parser/pkg/natsinfo"
)

type DatabaseConfig struct {
	Username string
	Password string
	Database string
	Host     string
	Port     string
	Driver   string
}

func (dconf *DatabaseConfig) GetURI() string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=disable",
		dconf.Driver,
		dconf.Username,
		dconf.Password,
		dconf.Host,
		dconf.Port,
		dconf.Database,
	)
}

func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:   "postgres",
		Username: envutils.Env("DATABASE_USERNAME", "admin"),
		Password: envutils.Env("DATABASE_PASSWORD", "admin"),
		Host:     envutils.Env("DATABASE_HOST", "postgres"),
		Port:     envutils.Env("DATABASE_PORT", "5432"),
		Database: envutils.Env("DATABASE_NAME", "postgres"),
	}
}

type NewDatabaseConnectionParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	Config *DatabaseConfig
	Logger *zap.Logger
}

func NewDatabaseConnection(params NewDatabaseConnectionParams) (*sql.DB, error) {
	conn, err := sql.Open(params.Config.Driver, params.Config.GetURI())
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := conn.PingContext(ctx); err != nil {
				return err
			}
			if err := storage.Migrate(ctx, conn); err != nil {
				return fmt.Errorf("unable migrate the database: %w", err)
			}
			params.Logger.Info("database ready", zap.String("host", params.Config.Host))
			return nil
		},
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})
	return conn, nil
}

func NewLogger() (*zap.Logger, error) {
	return logutils.NewLoggerFromEnv("backend")
}

func main() {
	if err := envutils.LoadDotEnv(); err != nil {
		log.Fatalf("unable load .env. Err:%s", err)
	}

	fx.New(
		fx.WithLogger(logutils.FxLogger),
		fx.Provide(
			NewLogger,

			natsinfo.NewNatsConfig,
			natsinfo.NewNatsConnection,
			natsinfo.NewDocumentCountKeyValue,

			NewDatabaseConfig,
			NewDatabaseConnection,

			service.NewDocumentService,

			httputils.AsHandler(httputils.HANDLER_GROUP_TAG, handler.NewDocumentHandler),
			httputils.NewRouter,
			httputils.NewServerConfig,
		),
		fx.Invoke(
			httputils.StartServer,
			worker.StartDocumentConsumerWorker,
		),
	).Run()
}
