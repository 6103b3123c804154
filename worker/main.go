package main

import (
	"context"
	"flag"
	"log"

	nats "github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/envutils"
	"github.com/romashorodok/html-parser/pkg/logutils"
	"github.com/romashorodok/html-parser/pkg/natsinfo"
	"github.com/romashorodok/html-parser/worker/internal/parseworker"
	"github.com/romashorodok/html-parser/worker/internal/sourcefeed"
)

func NewLogger() (*zap.Logger, error) {
	return logutils.NewLoggerFromEnv("worker")
}

type StartSourceFeedsParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	Sources sourcefeed.ConfigFlag
	Conn    *nats.Conn
	JS      nats.JetStreamContext
	Logger  *zap.Logger
}

func StartSourceFeeds(params StartSourceFeedsParams) {
	ctx, cancel := context.WithCancel(context.Background())
	maxPayload := params.Conn.MaxPayload()
	publish := parseworker.PublishRawDocument(params.JS, maxPayload)
	logger := params.Logger.Named("source-feed")

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, config := range params.Sources {
				processor := sourcefeed.NewSourceFeedProcessor(config, sourcefeed.PageSizeWithin(maxPayload), publish, logger)
				go processor.Start(ctx)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func main() {
	var sources sourcefeed.ConfigFlag
	flag.Var(&sources, "source", `page to pull into the markup stream, JSON like {"url":"https://example.com","refresh_interval":"10m"}. Repeatable`)
	flag.Parse()

	if err := envutils.LoadDotEnv(); err != nil {
		log.Fatalf("unable load .env. Err:%s", err)
	}

	fx.New(
		fx.WithLogger(logutils.FxLogger),
		fx.Supply(sources),
		fx.Provide(
			NewLogger,

			natsinfo.NewNatsConfig,
			natsinfo.NewNatsConnection,
		),
		fx.Invoke(
			parseworker.StartRawDocumentConsumer,
			StartSourceFeeds,
		),
	).Run()
}
