package natsinfo

import (
	"strings"

	nats "github.com/nats-io/nats.go"
)

const (
	MARKUP_STREAM_NAME           = "MARKUP"
	MARKUP_STREAM_RAW_SUBJECT    = "markup.raw.*"
	MARKUP_STREAM_PARSED_SUBJECT = "markup.tree.*"
)

var subjectTokenReplacer = strings.NewReplacer(" ", "_", ".", "_", "*", "_", ">", "_")

func subject(pattern, origin string) string {
	if origin == "" {
		origin = "unknown"
	}
	return strings.Replace(pattern, "*", subjectTokenReplacer.Replace(origin), 1)
}

func MarkupStream_NewRawSubject(origin string) string {
	return subject(MARKUP_STREAM_RAW_SUBJECT, origin)
}

func MarkupStream_NewParsedSubject(origin string) string {
	return subject(MARKUP_STREAM_PARSED_SUBJECT, origin)
}

var MARKUP_STREAM_CONFIG = &nats.StreamConfig{
	Name:      MARKUP_STREAM_NAME,
	Retention: nats.WorkQueuePolicy,
	Discard:   nats.DiscardOld,
	Subjects:  []string{MARKUP_STREAM_RAW_SUBJECT, MARKUP_STREAM_PARSED_SUBJECT},
}

func newQueueConsumerConfig(queueGroup, filterSubject string) (string, string, []nats.SubOpt, *nats.ConsumerConfig) {
	config := &nats.ConsumerConfig{
		Durable:        queueGroup,
		DeliverGroup:   queueGroup,
		DeliverSubject: "deliver." + queueGroup,
		AckPolicy:      nats.AckExplicitPolicy,
		FilterSubject:  filterSubject,
	}
	subOpts := []nats.SubOpt{
		nats.Bind(MARKUP_STREAM_NAME, queueGroup),
		nats.ManualAck(),
	}
	return MARKUP_STREAM_NAME, filterSubject, subOpts, config
}

func MarkupStream_NewRawConsumerConfig(queueGroup string) (string, string, []nats.SubOpt, *nats.ConsumerConfig) {
	return newQueueConsumerConfig(queueGroup, MARKUP_STREAM_RAW_SUBJECT)
}

func MarkupStream_NewParsedConsumerConfig(queueGroup string) (string, string, []nats.SubOpt, *nats.ConsumerConfig) {
	return newQueueConsumerConfig(queueGroup, MARKUP_STREAM_PARSED_SUBJECT)
}
