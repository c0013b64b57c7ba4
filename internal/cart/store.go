package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	redisclient "github.com/fadeatelier/fade-backend/pkg/redis"
)

// Item is one line of a session cart. Name and unit price are snapshots taken
// when the line was last touched; quotes re-read the live product.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceMinor int       `json:"unit_price_minor"`
	Quantity       int       `json:"quantity"`
}

// Cart is the JSON document stored per session in Redis. At most one coupon
// code may be attached; its discount is never stored, only recomputed.
type Cart struct {
	Items      []Item    `json:"items"`
	CouponCode string    `json:"coupon_code,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Line returns a pointer to the item for the given product, or nil.
func (c *Cart) Line(productID uuid.UUID) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveLine drops the item for the given product if present.
func (c *Cart) RemoveLine(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Empty reports whether the cart holds no items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Store persists session carts.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by the shared Redis client. Every save
// refreshes the cart's TTL.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "redis client is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

// Load returns the stored cart, or a fresh empty one when the session has
// none yet.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt cart payload")
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save cart")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete cart")
	}
	return nil
}
