package events

import (
	"context"
)

// LandmarkUpdated is published after a landmark has been written to the store.
type LandmarkUpdated struct {
	LPNumber string
	Name     string
}

type Publisher interface {
	PublishLandmarkUpdated(ctx context.Context, evt LandmarkUpdated) bool
	SubscribeLandmarkUpdated() <-chan LandmarkUpdated
}

type inMemory struct{ ch chan LandmarkUpdated }

// NewInMemory returns a single-consumer publisher. Publishing never blocks:
// events are dropped once buffer is full, and the drop is reported.
func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan LandmarkUpdated, buffer)}
}

func (m *inMemory) PublishLandmarkUpdated(_ context.Context, evt LandmarkUpdated) bool {
	select {
	case m.ch <- evt:
		return true
	default:
		return false
	}
}

func (m *inMemory) SubscribeLandmarkUpdated() <-chan LandmarkUpdated { return m.ch }
