package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the envelope published for domain events.
type Event struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id,omitempty"`
	VideoID string    `json:"video_id,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher emits domain events to Kafka. A zero or nil Publisher is a no-op
// so the service runs without brokers configured.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return &Publisher{}
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w}
}

func (p *Publisher) UserRegistered(ctx context.Context, userID string) error {
	return p.publish(ctx, userID, Event{Type: "user.registered", UserID: userID, At: time.Now().UTC()})
}

func (p *Publisher) UserLoggedIn(ctx context.Context, userID string) error {
	return p.publish(ctx, userID, Event{Type: "user.logged_in", UserID: userID, At: time.Now().UTC()})
}

func (p *Publisher) VideoWatched(ctx context.Context, userID, videoID string) error {
	return p.publish(ctx, userID, Event{Type: "video.watched", UserID: userID, VideoID: videoID, At: time.Now().UTC()})
}

func (p *Publisher) publish(ctx context.Context, key string, ev Event) error {
	if p == nil || p.writer == nil {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(key), Value: b, Time: time.Now()}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
