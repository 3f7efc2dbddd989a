package events

import (
	"context"
	"sync"
)

type Published struct {
	Topic string
	Key   string
	Event Event
}

// Recorder keeps published events in memory. Used by tests and by local runs
// without a broker.
type Recorder struct {
	mu   sync.Mutex
	list []Published
	Err  error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.list = append(r.list, Published{Topic: topic, Key: key, Event: ev})
	return nil
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.list))
	for _, p := range r.list {
		out = append(out, p.Event.Type)
	}
	return out
}
