// Package queue contains the background consumer that listens to the
// review.events queue and writes one line per event to logs/reviews.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/movieclub/internal/model"
)

// Consumer drains review.events into an append-only log file.
type Consumer struct {
    URL    string
    LogDir string
    Log    *slog.Logger
}

// Run dials the broker and consumes until ctx is cancelled.  Dial and
// channel failures are retried with backoff; only ctx cancellation ends
// the loop, and then Run returns nil.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return nil
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.Warn("review-consumer: failed to dial broker", "err", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return nil
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return nil
        }
        c.Log.Warn("review-consumer: consume loop ended; reconnecting", "err", err)
        if !sleep(ctx, 2*time.Second) {
            return nil
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warn("review-consumer: set QoS failed", "err", err)
    }

    if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handle(d.Body); err != nil {
                c.Log.Error("review-consumer: handle message failed", "err", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handle(body []byte) error {
    var ev ReviewEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    dir := c.LogDir
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(dir, "reviews.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev ReviewEvent) string {
    line := fmt.Sprintf("[%s] %s | id=%s | film=%s | title=%q",
        ev.OccurredAt, ev.Kind, ev.ID, ev.FilmID, ev.Title)
    if len(ev.Scores) > 0 {
        line += " | space=" + formatScores(ev.Scores)
    }
    if ev.Text != "" {
        line += fmt.Sprintf(" | text=%q", ev.Text)
    }
    return line + "\n"
}

// formatScores prints scores in S P A C E order, e.g. "S4 P2 A3 C3 E5".
func formatScores(s model.Scores) string {
    parts := make([]string, 0, len(s))
    seen := make(map[model.Dimension]bool, len(s))
    for _, d := range model.AllDimensions {
        if v, ok := s[d]; ok {
            parts = append(parts, fmt.Sprintf("%s%d", d, v))
            seen[d] = true
        }
    }
    var extra []string
    for d, v := range s {
        if !seen[d] {
            extra = append(extra, fmt.Sprintf("%s%d", d, v))
        }
    }
    sort.Strings(extra)
    return strings.Join(append(parts, extra...), " ")
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
