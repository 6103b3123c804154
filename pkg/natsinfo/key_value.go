package natsinfo

import (
	"errors"
	"time"

	nats "github.com/nats-io/nats.go"
)

var (
	DOCUMENT_COUNT_BUCKET_NAME      = "documents"
	DOCUMENT_COUNT_KEY_VALUE_CONFIG = nats.KeyValueConfig{
		Bucket: DOCUMENT_COUNT_BUCKET_NAME,
		TTL:    time.Minute * 2,
	}
)

func CreateOrBindKeyValue(js nats.JetStreamContext, config *nats.KeyValueConfig) (nats.KeyValue, error) {
	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		return js.CreateKeyValue(config)
	}
	return kv, err
}

func NewDocumentCountKeyValue(js nats.JetStreamContext) (nats.KeyValue, error) {
	return CreateOrBindKeyValue(js, &DOCUMENT_COUNT_KEY_VALUE_CONFIG)
}
