package invalidation

import "time"

// TopicLinksRemoved carries codes that were deleted from the durable store.
const TopicLinksRemoved = "links.removed"

// StreamLimits caps the removal stream at roughly maxLen entries.
func StreamLimits(maxLen int) map[string]int64 {
	return map[string]int64{TopicLinksRemoved: int64(maxLen)}
}

// LinksRemovedEvent is published after a successful remove so other workers can evict the codes
// from their private caches.
type LinksRemovedEvent struct {
	Codes     []string  `json:"codes"`
	Worker    int       `json:"worker"`
	RemovedAt time.Time `json:"removedAt"`
}
