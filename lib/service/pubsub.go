package service

import (
	"sync"

	"github.com/getAlby/x402hub.go/db/models"
	"github.com/google/uuid"
)

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.PaymentRequest
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.PaymentRequest)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.PaymentRequest) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.PaymentRequest)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// Publish never blocks the settling caller: subscribers that are not ready
// miss the message.
func (ps *Pubsub) Publish(topic string, msg models.PaymentRequest) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}
