// Package sourcefeed pulls markup pages on an interval and hands them over
// as raw documents for parsing.
package sourcefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/natsinfo"
)

const (
	DEFAULT_REFRESH_INTERVAL = time.Minute * 10

	// Room left in a message for the raw document fields around the body.
	RAW_DOCUMENT_ENVELOPE_SIZE int64 = 4 << 10
	// Page cap that fits the default 1MB NATS max payload.
	DEFAULT_MAX_PAGE_SIZE = (1<<20 - RAW_DOCUMENT_ENVELOPE_SIZE) / 4 * 3
)

// PageSizeWithin returns the largest page whose raw document still fits a
// message of maxPayload bytes. The body travels base64 encoded.
func PageSizeWithin(maxPayload int64) int64 {
	return (maxPayload - RAW_DOCUMENT_ENVELOPE_SIZE) / 4 * 3
}

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrPageTooLarge     = errors.New("page too large")
)

type SourceConfig struct {
	URL             string   `json:"url"`
	RefreshInterval Duration `json:"refresh_interval"`
	// Encoding label forced on the page, detected from the response when empty.
	Encoding string `json:"encoding,omitempty"`
	Strict   bool   `json:"strict,omitempty"`
}

func (c SourceConfig) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.Join(ErrInvalidSourceConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.Join(ErrInvalidSourceConfig, fmt.Errorf("url %q must be absolute http(s)", c.URL))
	}
	if c.RefreshInterval < 0 {
		return errors.Join(ErrInvalidSourceConfig, fmt.Errorf("negative refresh interval %s", time.Duration(c.RefreshInterval)))
	}
	return nil
}

func (c SourceConfig) origin() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (c SourceConfig) interval() time.Duration {
	if c.RefreshInterval == 0 {
		return DEFAULT_REFRESH_INTERVAL
	}
	return time.Duration(c.RefreshInterval)
}

// PublishFunc receives every fetched page.
type PublishFunc func(document *natsinfo.RawDocument) error

type SourceFeedProcessor struct {
	client      *http.Client
	config      SourceConfig
	maxPageSize int64
	publish     PublishFunc
	logger      *zap.Logger
}

func (n *SourceFeedProcessor) fetch(ctx context.Context) (*natsinfo.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.config.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrUnexpectedStatus, fmt.Errorf("%s responded %s", n.config.URL, resp.Status))
	}

	if resp.ContentLength > n.maxPageSize {
		return nil, errors.Join(ErrPageTooLarge, fmt.Errorf("%s is %d bytes, max %d", n.config.URL, resp.ContentLength, n.maxPageSize))
	}

	// One byte over the cap tells a page of exactly maxPageSize from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, n.maxPageSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > n.maxPageSize {
		return nil, errors.Join(ErrPageTooLarge, fmt.Errorf("%s is over %d bytes", n.config.URL, n.maxPageSize))
	}

	return &natsinfo.RawDocument{
		ID:          uuid.NewString(),
		Origin:      n.config.origin(),
		ContentType: resp.Header.Get("Content-Type"),
		Encoding:    n.config.Encoding,
		Strict:      n.config.Strict,
		Body:        body,
	}, nil
}

// Refresh fetches the page once and publishes it.
func (n *SourceFeedProcessor) Refresh(ctx context.Context) error {
	document, err := n.fetch(ctx)
	if err != nil {
		return err
	}
	return n.publish(document)
}

// Start refreshes the page right away and then on every interval tick until
// ctx is done.
func (n *SourceFeedProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(n.config.interval())
	defer ticker.Stop()

	for {
		n.logger.Info("refresh source page", zap.String("url", n.config.URL))
		if err := n.Refresh(ctx); err != nil {
			n.logger.Warn("unable refresh source page", zap.String("url", n.config.URL), zap.Error(err))
		}
		n.logger.Debug("next source refresh", zap.Time("at", time.Now().Add(n.config.interval())))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// NewSourceFeedProcessor builds a poller for one source. Pages larger than
// maxPageSize bytes are rejected, DEFAULT_MAX_PAGE_SIZE applies when it is
// not positive.
func NewSourceFeedProcessor(config SourceConfig, maxPageSize int64, publish PublishFunc, logger *zap.Logger) *SourceFeedProcessor {
	if maxPageSize <= 0 {
		maxPageSize = DEFAULT_MAX_PAGE_SIZE
	}
	return &SourceFeedProcessor{
		client:      &http.Client{Timeout: time.Second * 30},
		config:      config,
		maxPageSize: maxPageSize,
		publish:     publish,
		logger:      logger,
	}
}
