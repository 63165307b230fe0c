package memory

import (
	"time"

	"swiftmart-be/internal/dto"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ReceiptCache remembers recently completed refunds per order so a
// rapid duplicate submit on the same instance is answered from memory
// without touching the database. The authoritative duplicate guard is
// the conditional refund_status update; this is only a cheap front.
type ReceiptCache struct {
	cache *gocache.Cache
}

func NewReceiptCache(ttl time.Duration) *ReceiptCache {
	return &ReceiptCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *ReceiptCache) Get(orderId uuid.UUID) (*dto.ProcessRefundResponse, bool) {
	v, ok := c.cache.Get(orderId.String())
	if !ok {
		return nil, false
	}
	res, ok := v.(*dto.ProcessRefundResponse)
	return res, ok
}

func (c *ReceiptCache) Put(orderId uuid.UUID, res *dto.ProcessRefundResponse) {
	c.cache.SetDefault(orderId.String(), res)
}
