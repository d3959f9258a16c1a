package cart

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/your-org/fireplay-backend/internal/domain/catalog"
)

// Price bounds, inclusive
const (
	MinPrice = 30
	MaxPrice = 80
)

// PricePolicy assigns the price a game gets when it is added to the cart
type PricePolicy interface {
	Price(item catalog.Item) int
}

// RandomPricing draws a uniform integer in [MinPrice, MaxPrice] on every add
type RandomPricing struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPricing creates a random policy. A nil rng uses the global source.
func NewRandomPricing(rng *rand.Rand) *RandomPricing {
	return &RandomPricing{rng: rng}
}

// Price implements PricePolicy
func (p *RandomPricing) Price(catalog.Item) int {
	if p.rng == nil {
		return rand.IntN(MaxPrice-MinPrice+1) + MinPrice
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(MaxPrice-MinPrice+1) + MinPrice
}

// StablePricing derives the price from the item id, so re-adding a game
// always yields the same price
type StablePricing struct{}

// Price implements PricePolicy
func (StablePricing) Price(item catalog.Item) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.Itoa(item.ID)))
	return int(h.Sum32()%uint32(MaxPrice-MinPrice+1)) + MinPrice
}

// NewPricePolicy returns the policy for a PRICING_MODE value
func NewPricePolicy(mode string) PricePolicy {
	if mode == "stable" {
		return StablePricing{}
	}
	return NewRandomPricing(nil)
}
