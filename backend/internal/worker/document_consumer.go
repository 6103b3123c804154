package worker

import (
	"context"

	nats "github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/backend/internal/service"
	"github.com/romashorodok/html-parser/pkg/natsinfo"
)

const DOCUMENTS_CONSUMER_QUEUE_GROUP = "backend-documents-consumer"

type documentConsumerWorker struct {
	js              nats.JetStreamContext
	documentService *service.DocumentService
	logger          *zap.Logger
}

func (d *documentConsumerWorker) handler(ctx context.Context) func(msg *nats.Msg) {
	return func(msg *nats.Msg) {
		var document natsinfo.ParsedDocument

		if err := document.Unmarshal(msg.Data); err != nil {
			d.logger.Error("unable deserialize parsed document payload", zap.String("subject", msg.Subject), zap.Error(err))
			_ = msg.Ack()
			return
		}

		result, err := d.documentService.Store(ctx, service.StoreParams{
			ID:          document.ID,
			Origin:      document.Origin,
			ContentHash: document.ContentHash,
			ParsedAt:    document.ParsedAt,
			Document:    document.Document,
		})
		if err != nil {
			// Left unacked, the message is redelivered.
			d.logger.Error("unable store document", zap.String("origin", document.Origin), zap.Error(err))
			return
		}

		if result.Created {
			d.logger.Info("created document", zap.Stringer("id", result.ID), zap.String("origin", document.Origin))
		} else {
			d.logger.Debug("document already stored", zap.Stringer("id", result.ID), zap.String("origin", document.Origin))
		}
		_ = msg.Ack()
	}
}

func (d *documentConsumerWorker) start(ctx context.Context) error {
	if _, err := natsinfo.CreateOrUpdateStream(d.js, natsinfo.MARKUP_STREAM_CONFIG); err != nil {
		d.logger.Error("unable set-up nats stream", zap.String("stream", natsinfo.MARKUP_STREAM_CONFIG.Name), zap.Error(err))
		return err
	}

	stream, subject, subOpts, config := natsinfo.MarkupStream_NewParsedConsumerConfig(DOCUMENTS_CONSUMER_QUEUE_GROUP)

	if _, err := natsinfo.CreateOrUpdateConsumer(d.js, stream, config); err != nil {
		d.logger.Error("unable set-up nats consumer", zap.String("queue_group", DOCUMENTS_CONSUMER_QUEUE_GROUP), zap.Error(err))
		return err
	}

	if _, err := d.js.QueueSubscribe(subject, DOCUMENTS_CONSUMER_QUEUE_GROUP, d.handler(ctx), subOpts...); err != nil {
		d.logger.Error("unable start nats consumer", zap.String("queue_group", DOCUMENTS_CONSUMER_QUEUE_GROUP), zap.Error(err))
		return err
	}

	d.logger.Info("consuming parsed documents", zap.String("subject", subject))
	return nil
}

type StartDocumentConsumerWorkerParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	JS              nats.JetStreamContext
	DocumentService *service.DocumentService
	Logger          *zap.Logger
}

func StartDocumentConsumerWorker(params StartDocumentConsumerWorkerParams) {
	ctx, cancel := context.WithCancel(context.Background())
	worker := &documentConsumerWorker{
		js:              params.JS,
		documentService: params.DocumentService,
		logger:          params.Logger.Named("document-consumer"),
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return worker.start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
