// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/movieclub/internal/model"

// QueueName is the durable queue review events are routed to.
const QueueName = "review.events"

// Event kinds
const (
    KindSaved   = "review.saved"
    KindDeleted = "review.deleted"
    KindSeeded  = "review.seeded"
)

// ReviewEvent is published after every change to the review collection.
// It carries enough of the review for downstream consumers to log or share
// it without reading the store.
type ReviewEvent struct {
    ID         string       `json:"id"`
    Kind       string       `json:"kind"`
    FilmID     model.FilmID `json:"film_id"`
    Title      string       `json:"title"`
    Scores     model.Scores `json:"scores,omitempty"`
    Text       string       `json:"text,omitempty"`
    OccurredAt string       `json:"occurred_at"`
}
