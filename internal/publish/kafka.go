package publish

import (
	"context"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/i474232898/snowdesk/internal/store"
)

// messageWriter is the part of *kafkago.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaSink produces every snapshot as one message on a topic.
type KafkaSink struct {
	writer messageWriter
}

// NewKafkaSink creates a producer for topic on brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{writer: w}
}

func (k *KafkaSink) Name() string {
	return "kafka"
}

func (k *KafkaSink) Publish(ctx context.Context, snap *store.Snapshot) error {
	msg, err := snapshotMessage(snap)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}

func snapshotMessage(snap *store.Snapshot) (kafkago.Message, error) {
	data, err := encode(snap)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte("resorts"),
		Value: data,
		Time:  snap.LastUpdated,
		Headers: []kafkago.Header{
			{Key: "cycle_id", Value: []byte(snap.CycleID)},
			{Key: "last_updated", Value: []byte(snap.LastUpdated.Format(time.RFC3339))},
			{Key: "count", Value: []byte(strconv.Itoa(snap.Count))},
		},
	}, nil
}
