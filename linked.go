package spark

import "sync"

// messageRef locates a sent message for later deletion
type messageRef struct {
	ChannelID string
	MessageID string
}

// linkedCache remembers which replies were sent for which triggering message
// so the replies can be deleted when the trigger is. It holds a fixed number
// of triggers and evicts the oldest once full. A reply-send and an upstream
// delete notification can race, so all access is locked
type linkedCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]messageRef
	order    []string
}

func newLinkedCache(capacity int) *linkedCache {
	return &linkedCache{
		capacity: capacity,
		entries:  make(map[string][]messageRef, capacity),
		order:    make([]string, 0, capacity),
	}
}

// add records responses under the triggering message's ID
func (c *linkedCache) add(triggerID string, responses ...messageRef) {
	if len(responses) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[triggerID]; !ok {
		for len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, triggerID)
	}
	c.entries[triggerID] = append(c.entries[triggerID], responses...)
}

// take removes and returns the responses recorded for a trigger
func (c *linkedCache) take(triggerID string) []messageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	responses, ok := c.entries[triggerID]
	if !ok {
		return nil
	}
	delete(c.entries, triggerID)
	for i, id := range c.order {
		if id == triggerID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return responses
}
