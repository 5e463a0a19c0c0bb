// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/identra/internal/platform/constants"
)

// Stream field names.
const (
	fieldAction    = "action"
	fieldBody      = "body"
	fieldService   = "service"
	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
)

// recordTimeout bounds a single append so a slow Redis cannot hold a
// request goroutine hostage.
const recordTimeout = 2 * time.Second

// StreamSink implements [Sink] on top of a Redis Stream.
type StreamSink struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

// NewStreamSink creates a Redis-backed audit sink appending to the standard
// audit stream.
func NewStreamSink(client *redis.Client, logger *slog.Logger) *StreamSink {
	return &StreamSink{
		client: client,
		stream: constants.AuditStreamKey,
		logger: logger,
	}
}

/*
Record appends an event to the audit stream.

Description: Fire-and-forget append via XADD. Failures are logged and
swallowed — the enclosing signup/login/middleware flow must not observe them.

Parameters:
  - ctx: context.Context
  - event: Event
*/
func (sink *StreamSink) Record(ctx context.Context, event Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	values := map[string]interface{}{
		fieldAction:    event.Action,
		fieldService:   event.Service,
		fieldUserID:    event.UserID,
		fieldCreatedAt: event.CreatedAt.Format(time.RFC3339Nano),
	}

	if len(event.Body) > 0 {
		encodedBody, err := json.Marshal(event.Body)
		if err != nil {
			sink.logger.Error("audit_event_body_encode_failed",
				slog.String("action", event.Action),
				slog.Any("error", err),
			)
		} else {
			values[fieldBody] = string(encodedBody)
		}
	}

	// Detach from the request's lifetime: the append should survive the
	// response being written, but not run unbounded.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	err := sink.client.XAdd(appendCtx, &redis.XAddArgs{
		Stream: sink.stream,
		Values: values,
	}).Err()

	if err != nil {
		sink.logger.Error("audit_event_append_failed",
			slog.String("action", event.Action),
			slog.Any("error", err),
		)
	}
}

/*
Recent returns up to limit events from the stream, newest first.

Description: Diagnostics read path. Events referencing users that no longer
exist are returned as-is; the user id is an opaque string here.

Parameters:
  - ctx: context.Context
  - limit: int64

Returns:
  - []Event: Decoded events, newest first
  - error: Stream read failures
*/
func (sink *StreamSink) Recent(ctx context.Context, limit int64) ([]Event, error) {
	messages, err := sink.client.XRevRangeN(ctx, sink.stream, "+", "-", limit).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(messages))
	for _, message := range messages {
		events = append(events, decodeMessage(message))
	}

	return events, nil
}

// decodeMessage converts a raw stream entry back into an [Event].
// Unparseable fields degrade to zero values rather than failing the read.
func decodeMessage(message redis.XMessage) Event {
	event := Event{}

	if action, ok := message.Values[fieldAction].(string); ok {
		event.Action = action
	}
	if service, ok := message.Values[fieldService].(string); ok {
		event.Service = service
	}
	if userID, ok := message.Values[fieldUserID].(string); ok {
		event.UserID = userID
	}
	if createdAt, ok := message.Values[fieldCreatedAt].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			event.CreatedAt = parsed
		}
	}
	if rawBody, ok := message.Values[fieldBody].(string); ok && rawBody != "" {
		body := map[string]string{}
		if err := json.Unmarshal([]byte(rawBody), &body); err == nil {
			event.Body = body
		}
	}

	return event
}
