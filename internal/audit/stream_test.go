// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/identra/internal/audit"
	"github.com/taibuivan/identra/internal/platform/constants"
)

func newTestSink(t *testing.T) (*audit.StreamSink, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return audit.NewStreamSink(client, slog.Default()), client
}

/*
TestStreamSink_RecordAndRecent verifies the append → read round trip,
including body payload and ordering (newest first).
*/
func TestStreamSink_RecordAndRecent(t *testing.T) {
	sink, _ := newTestSink(t)
	ctx := context.Background()

	sink.Record(ctx, audit.Event{
		Action:  "user_signed_up",
		Service: constants.ServiceAuth,
		UserID:  "user-1",
		Body:    map[string]string{"email": "john@x.com"},
	})
	sink.Record(ctx, audit.Event{
		Action:  "user_logged_in",
		Service: constants.ServiceAuth,
		UserID:  "user-1",
	})

	events, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "user_logged_in", events[0].Action)
	assert.Equal(t, "user_signed_up", events[1].Action)

	assert.Equal(t, constants.ServiceAuth, events[1].Service)
	assert.Equal(t, "user-1", events[1].UserID)
	assert.Equal(t, map[string]string{"email": "john@x.com"}, events[1].Body)
	assert.WithinDuration(t, time.Now(), events[1].CreatedAt, time.Minute)
}

/*
TestStreamSink_Recent_Limit verifies the read honors the caller's limit.
*/
func TestStreamSink_Recent_Limit(t *testing.T) {
	sink, _ := newTestSink(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sink.Record(ctx, audit.Event{Action: "user_logged_in", Service: constants.ServiceAuth})
	}

	events, err := sink.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

/*
TestStreamSink_Recent_Empty verifies reading an empty stream yields an empty
slice, not an error.
*/
func TestStreamSink_Recent_Empty(t *testing.T) {
	sink, _ := newTestSink(t)

	events, err := sink.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

/*
TestStreamSink_DanglingUserID verifies events referencing accounts that no
longer exist still come back intact — the id is an opaque string on read.
*/
func TestStreamSink_DanglingUserID(t *testing.T) {
	sink, _ := newTestSink(t)
	ctx := context.Background()

	sink.Record(ctx, audit.Event{
		Action:  "identity_resolution_failed",
		Service: constants.ServiceMiddleware,
		UserID:  "deleted-user-id",
	})

	events, err := sink.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "deleted-user-id", events[0].UserID)
}

/*
TestStreamSink_RecordSurvivesCanceledContext verifies appends are detached
from the request lifetime: a canceled request context must not lose the event.
*/
func TestStreamSink_RecordSurvivesCanceledContext(t *testing.T) {
	sink, _ := newTestSink(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink.Record(ctx, audit.Event{Action: "user_signed_up", Service: constants.ServiceAuth})

	events, err := sink.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user_signed_up", events[0].Action)
}
