package natsinfo

import (
	"errors"
	"fmt"

	nats "github.com/nats-io/nats.go"
)

func CreateOrUpdateStream(js nats.JetStreamContext, config *nats.StreamConfig) (*nats.StreamInfo, error) {
	info, err := js.AddStream(config)

	switch {
	case errors.Is(err, nats.ErrStreamNameAlreadyInUse):
		info, err = js.UpdateStream(config)
	}

	return info, err
}

func CreateOrUpdateConsumer(js nats.JetStreamContext, stream string, config *nats.ConsumerConfig, opts ...nats.JSOpt) (*nats.ConsumerInfo, error) {
	info, err := js.AddConsumer(stream, config, opts...)

	switch {
	case errors.Is(err, nats.ErrConsumerNameAlreadyInUse):
		info, err = js.UpdateConsumer(stream, config, opts...)
	}

	return info, err
}

type Marshaler interface {
	Marshal() ([]byte, error)
}

var ErrPayloadTooLarge = errors.New("payload exceeds the server max payload")

// MarshalPayload marshals payload and rejects it when it is larger than
// maxPayload bytes. A non-positive maxPayload disables the check.
func MarshalPayload(payload Marshaler, maxPayload int64) ([]byte, error) {
	data, err := payload.Marshal()
	if err != nil {
		return nil, err
	}
	if maxPayload > 0 && int64(len(data)) > maxPayload {
		return nil, errors.Join(ErrPayloadTooLarge, fmt.Errorf("%d bytes, max %d", len(data), maxPayload))
	}
	return data, nil
}

func JsPublishJsonWithin(js nats.JetStreamContext, subject string, payload Marshaler, maxPayload int64) (*nats.PubAck, error) {
	data, err := MarshalPayload(payload, maxPayload)
	if err != nil {
		return nil, err
	}
	return js.Publish(subject, data)
}

func JsPublishJson(js nats.JetStreamContext, subject string, payload Marshaler) (*nats.PubAck, error) {
	data, err := payload.Marshal()
	if err != nil {
		return nil, err
	}
	return js.Publish(subject, data)
}
