package mq

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Stream / subject layout. Fan-out and follower-seeding messages live on the
// FEED stream; per-channel notifications live on NOTIFICATIONS.
const (
	StreamFeed          = "FEED"
	StreamNotifications = "NOTIFICATIONS"

	SubjectUpdateFeed   = "feed.update"
	SubjectAddFollowers = "feed.followers"
	SubjectNotification = "notification." // + channel (email / sms)
)

// Broker is the durable-queue boundary used by publishers and the notifier.
// An empty msgID disables server-side deduplication for that message.
type Broker interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}

type JetStream struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func Connect(url string) (*JetStream, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return &JetStream{nc: nc, js: js}, nil
}

// Init creates or updates the streams. The duplicate window bounds how long
// redelivered fan-out messages are suppressed by Nats-Msg-Id.
func (m *JetStream) Init(ctx context.Context) error {
	_, err := m.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamFeed,
		Subjects:   []string{"feed.>"},
		Duplicates: 2 * time.Minute,
		MaxAge:     24 * time.Hour,
	})
	if err != nil {
		return err
	}
	_, err = m.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamNotifications,
		Subjects: []string{"notification.>"},
		MaxAge:   24 * time.Hour,
	})
	return err
}

func (m *JetStream) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	var opts []jetstream.PublishOpt
	if msgID != "" {
		opts = append(opts, jetstream.WithMsgID(msgID))
	}
	_, err := m.js.Publish(ctx, subject, data, opts...)
	return err
}

func (m *JetStream) Close() error {
	return m.nc.Drain()
}
