package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_JSON(t *testing.T) {
	ev := New("order_paid", map[string]string{"order_id": "o1"})
	assert.WithinDuration(t, time.Now(), ev.OccurredAt, time.Second)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "order_paid", got["type"])
	assert.Equal(t, map[string]any{"order_id": "o1"}, got["payload"])
	assert.Contains(t, got, "occurred_at")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, TopicCart, "k1", New("cart_item_added", nil)))
	require.NoError(t, r.Publish(ctx, TopicOrder, "k2", New("order_created", nil)))

	assert.Equal(t, []string{"cart_item_added", "order_created"}, r.Types())
	evs := r.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, TopicOrder, evs[1].Topic)
	assert.Equal(t, "k2", evs[1].Key)

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(ctx, TopicCart, "k", New("x", nil)))
	assert.Len(t, r.Events(), 2)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicReview, "k", New("review_created", nil)))
}
