package realtime

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Group is a live subscriber set.
type Group string

const (
	GroupStaff    Group = "staff"
	GroupDelivery Group = "delivery"
	GroupCustomer Group = "customer"
)

// Groups lists every subscriber group.
var Groups = []Group{GroupStaff, GroupDelivery, GroupCustomer}

// Subscriber is one open realtime channel.
type Subscriber interface {
	// ID is unique per connection.
	ID() string
	// Key scopes the subscription: delivery person id, order id, or empty for staff.
	Key() string
	Send(payload []byte) error
	Close() error
}

// BroadcastRecorder receives per-broadcast delivery counts.
type BroadcastRecorder interface {
	RecordBroadcast(group string, delivered, dropped int)
}

// BroadcastResult summarizes one fan-out.
type BroadcastResult struct {
	Delivered int
	Dropped   int
}

// Hub owns the three subscriber groups. Membership changes are safe during broadcasts:
// a broadcast iterates over a snapshot and a failed send removes only that subscriber.
type Hub struct {
	mu       sync.RWMutex
	groups   map[Group]map[string]Subscriber
	logger   *zap.Logger
	recorder BroadcastRecorder
}

// NewHub creates an empty hub. recorder may be nil.
func NewHub(logger *zap.Logger, recorder BroadcastRecorder) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	groups := make(map[Group]map[string]Subscriber, len(Groups))
	for _, g := range Groups {
		groups[g] = make(map[string]Subscriber)
	}
	return &Hub{groups: groups, logger: logger, recorder: recorder}
}

// Register adds sub to group.
func (h *Hub) Register(group Group, sub Subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return fmt.Errorf("unknown subscriber group %q", group)
	}
	members[sub.ID()] = sub
	h.logger.Debug("subscriber registered",
		zap.String("group", string(group)),
		zap.String("subscriber_id", sub.ID()),
		zap.String("key", sub.Key()))
	return nil
}

// Unregister removes sub from group and reports whether it was a member.
func (h *Hub) Unregister(group Group, sub Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return false
	}
	if _, exists := members[sub.ID()]; !exists {
		return false
	}
	delete(members, sub.ID())
	return true
}

// Count returns the number of live subscribers in group.
func (h *Hub) Count(group Group) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// Broadcast pushes payload to every member of group.
func (h *Hub) Broadcast(group Group, payload []byte) BroadcastResult {
	return h.deliver(group, func(Subscriber) bool { return true }, payload)
}

// BroadcastTo pushes payload to the members of group subscribed under key.
func (h *Hub) BroadcastTo(group Group, key string, payload []byte) BroadcastResult {
	return h.deliver(group, func(s Subscriber) bool { return s.Key() == key }, payload)
}

func (h *Hub) deliver(group Group, match func(Subscriber) bool, payload []byte) BroadcastResult {
	var result BroadcastResult
	for _, sub := range h.snapshot(group) {
		if !match(sub) {
			continue
		}
		if err := sub.Send(payload); err != nil {
			h.logger.Warn("dropping subscriber after failed send",
				zap.String("group", string(group)),
				zap.String("subscriber_id", sub.ID()),
				zap.Error(err))
			if h.Unregister(group, sub) {
				_ = sub.Close()
			}
			result.Dropped++
			continue
		}
		result.Delivered++
	}
	if h.recorder != nil {
		h.recorder.RecordBroadcast(string(group), result.Delivered, result.Dropped)
	}
	return result
}

func (h *Hub) snapshot(group Group) []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := h.groups[group]
	out := make([]Subscriber, 0, len(members))
	for _, sub := range members {
		out = append(out, sub)
	}
	return out
}
