package parseworker

import (
	"bytes"
	"errors"
	"time"

	nats "github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/hashutils"
	"github.com/romashorodok/html-parser/pkg/natsinfo"
	"github.com/romashorodok/html-parser/pkg/parser"
	"github.com/romashorodok/html-parser/pkg/sourceutils"
)

const RAW_DOCUMENTS_CONSUMER_QUEUE_GROUP = "worker-markup-parser"

var ErrUnableDecodeDocument = errors.New("unable decode the document")

// ParseRawDocument decodes and parses a raw document.
func ParseRawDocument(raw *natsinfo.RawDocument) (*natsinfo.ParsedDocument, error) {
	data, err := sourceutils.Decode(bytes.NewReader(raw.Body), raw.ContentType, raw.Encoding)
	if err != nil {
		return nil, errors.Join(ErrUnableDecodeDocument, err)
	}

	var opts []parser.Option
	if raw.Strict {
		opts = append(opts, parser.WithStrictNesting())
	}
	document, err := parser.ParseReader(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, err
	}

	return &natsinfo.ParsedDocument{
		ID:          raw.ID,
		Origin:      raw.Origin,
		ContentHash: hashutils.ContentHash(raw.Body),
		ParsedAt:    time.Now(),
		Document:    document,
	}, nil
}

type rawDocumentConsumerWorker struct {
	js         nats.JetStreamContext
	maxPayload int64
	logger     *zap.Logger
}

func (w *rawDocumentConsumerWorker) handler(msg *nats.Msg) {
	var raw natsinfo.RawDocument

	if err := raw.Unmarshal(msg.Data); err != nil {
		w.logger.Error("unable deserialize raw document payload", zap.String("subject", msg.Subject), zap.Error(err))
		_ = msg.Ack()
		return
	}

	parsed, err := ParseRawDocument(&raw)
	if err != nil {
		w.logger.Error("unable parse raw document", zap.String("id", raw.ID), zap.String("origin", raw.Origin), zap.Error(err))
		_ = msg.Ack()
		return
	}

	for _, diagnostic := range parsed.Document.Diagnostics {
		w.logger.Debug("markup diagnostic",
			zap.String("id", raw.ID),
			zap.String("kind", string(diagnostic.Kind)),
			zap.Int("offset", diagnostic.Offset),
			zap.String("message", diagnostic.Message),
		)
	}

	subject := natsinfo.MarkupStream_NewParsedSubject(raw.Origin)
	_, err = natsinfo.JsPublishJsonWithin(w.js, subject, parsed, w.maxPayload)
	if errors.Is(err, natsinfo.ErrPayloadTooLarge) {
		w.logger.Error("parsed document too large for the markup stream", zap.String("id", raw.ID), zap.String("subject", subject), zap.Error(err))
		_ = msg.Ack()
		return
	}
	if err != nil {
		// Left unacked, the message is redelivered.
		w.logger.Error("unable publish parsed document", zap.String("subject", subject), zap.Error(err))
		return
	}

	w.logger.Info("parsed document",
		zap.String("id", raw.ID),
		zap.String("origin", raw.Origin),
		zap.Int("diagnostics", len(parsed.Document.Diagnostics)),
	)
	_ = msg.Ack()
}

func (w *rawDocumentConsumerWorker) start() error {
	if _, err := natsinfo.CreateOrUpdateStream(w.js, natsinfo.MARKUP_STREAM_CONFIG); err != nil {
		w.logger.Error("unable set-up nats stream", zap.String("stream", natsinfo.MARKUP_STREAM_CONFIG.Name), zap.Error(err))
		return err
	}

	stream, subject, subOpts, config := natsinfo.MarkupStream_NewRawConsumerConfig(RAW_DOCUMENTS_CONSUMER_QUEUE_GROUP)

	if _, err := natsinfo.CreateOrUpdateConsumer(w.js, stream, config); err != nil {
		w.logger.Error("unable set-up nats consumer", zap.String("queue_group", RAW_DOCUMENTS_CONSUMER_QUEUE_GROUP), zap.Error(err))
		return err
	}

	if _, err := w.js.QueueSubscribe(subject, RAW_DOCUMENTS_CONSUMER_QUEUE_GROUP, w.handler, subOpts...); err != nil {
		w.logger.Error("unable start nats consumer", zap.String("queue_group", RAW_DOCUMENTS_CONSUMER_QUEUE_GROUP), zap.Error(err))
		return err
	}

	w.logger.Info("consuming raw documents", zap.String("subject", subject))
	return nil
}

type StartRawDocumentConsumerParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	Conn   *nats.Conn
	JS     nats.JetStreamContext
	Logger *zap.Logger
}

func StartRawDocumentConsumer(params StartRawDocumentConsumerParams) {
	worker := &rawDocumentConsumerWorker{
		js:         params.JS,
		maxPayload: params.Conn.MaxPayload(),
		logger:     params.Logger.Named("raw-document-consumer"),
	}
	params.Lifecycle.Append(fx.StartHook(worker.start))
}

// PublishRawDocument returns a publisher of raw documents into the markup
// stream. Documents over maxPayload bytes fail with natsinfo.ErrPayloadTooLarge.
func PublishRawDocument(js nats.JetStreamContext, maxPayload int64) func(document *natsinfo.RawDocument) error {
	return func(document *natsinfo.RawDocument) error {
		_, err := natsinfo.JsPublishJsonWithin(js, natsinfo.MarkupStream_NewRawSubject(document.Origin), document, maxPayload)
		return err
	}
}
