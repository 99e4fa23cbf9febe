package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedBus "github.com/davicafu/rentacarritos/shared/platform/bus"
)

// DummyPublisher captura los eventos publicados como JSON.
type DummyPublisher struct {
	Published []string
	mu        sync.Mutex
}

// Verificación estática
var _ sharedBus.EventPublisher = (*DummyPublisher)(nil)

func (p *DummyPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, _ := json.Marshal(event)
	p.Published = append(p.Published, string(data))
	return nil
}
