// Package service holds the review store and the collaborators it notifies
// when the review collection changes.
package service

import (
    "context"
    "encoding/json"
    "log/slog"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/movieclub/internal/model"
    "github.com/iliyamo/movieclub/internal/queue"
)

// EventPublisher delivers review events to downstream consumers.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.ReviewEvent) error
}

// NopPublisher drops every event.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReviewEvent) error { return nil }

// AMQPPublisher publishes review events to the durable review.events queue.
// Each call opens its own connection.
type AMQPPublisher struct {
    URL string
    Log *slog.Logger
}

// Publish sends ev as a persistent JSON message.  Any error is logged and
// returned so the caller can choose to ignore it.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ReviewEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        p.Log.Warn("rabbitmq: dial failed", "err", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.Log.Warn("rabbitmq: channel open failed", "err", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queue.QueueName, // name
        true,            // durable
        false,           // autoDelete
        false,           // exclusive
        false,           // noWait
        nil,             // args
    ); err != nil {
        p.Log.Warn("rabbitmq: queue declare failed", "err", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        p.Log.Warn("rabbitmq: marshal event failed", "err", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.ID,
        Type:         ev.Kind,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",              // default exchange
        queue.QueueName, // routing key = queue name
        false,           // mandatory
        false,           // immediate
        pub,
    ); err != nil {
        p.Log.Warn("rabbitmq: publish failed", "err", err)
        return err
    }
    return nil
}

// newEvent builds the event for a change to r.
func newEvent(kind string, r model.Review, at time.Time) queue.ReviewEvent {
    ev := queue.ReviewEvent{
        ID:         uuid.NewString(),
        Kind:       kind,
        FilmID:     r.FilmID,
        Title:      r.Title(),
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
    if kind != queue.KindDeleted {
        ev.Scores = r.Scores.Clone()
        ev.Text = r.Text
    }
    return ev
}
