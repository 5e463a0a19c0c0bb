// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit implements the append-only audit side channel.

The auth service and the identity middleware emit fire-and-forget event
records here. A failing sink must never affect the outcome of the request
that produced the event.

# Architecture

  - Event: The append-only record (action, body, service tag, acting user, timestamp).
  - Sink: The contract consumed by producers.
  - StreamSink: Redis Streams implementation.
  - NopSink: Disabled/testing implementation.

Events reference users by id only (a weak reference): a user deleted after the
event was recorded never breaks retrieval.
*/
package audit

import (
	"context"
	"time"
)

// Event is a single append-only audit record.
type Event struct {
	// Action is the event name, e.g. "user_signed_up".
	Action string `json:"action"`
	// Body holds optional free-form event attributes.
	Body map[string]string `json:"body,omitempty"`
	// Service tags the originating component.
	Service string `json:"service,omitempty"`
	// UserID is the acting user, if any. Weak reference — never joined
	// against the credential store.
	UserID string `json:"user_id,omitempty"`
	// CreatedAt is the event timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives audit events.
//
// # Contract
//
// Record is fire-and-forget: implementations absorb their own failures (log
// only) so producers never branch on the result. Recent exists for
// diagnostics and admin tooling.
type Sink interface {
	// Record appends an event to the sink. Never returns an error to the caller.
	Record(ctx context.Context, event Event)

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int64) ([]Event, error)
}

// NopSink is a Sink that discards every event. Used in tests and when the
// audit channel is disabled.
type NopSink struct{}

// Record implements [Sink] by doing nothing.
func (NopSink) Record(context.Context, Event) {}

// Recent implements [Sink] by returning an empty slice.
func (NopSink) Recent(context.Context, int64) ([]Event, error) {
	return []Event{}, nil
}
