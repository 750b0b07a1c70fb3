package volume

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// WindowDays is the size of the rolling daily-stake history.
const WindowDays = 7

// epochRetention controls how many epochs of per-identity bookkeeping are
// kept for idempotent re-fetching before being pruned.
const epochRetention = 16

var weiPerUnit = sdkmath.LegacyNewDec(1_000_000_000_000_000_000)

// History is one identity's rolling daily stake, slot 0 being today (UTC)
// and slot 6 being six days ago. Amounts are in whole token units.
type History [WindowDays]float64

// Weighted returns the decay-weighted sum of the history.
func (h History) Weighted(weights [WindowDays]float64) float64 {
	var sum float64
	for i, amount := range h {
		sum += amount * weights[i]
	}
	return sum
}

// shifted returns the history moved right by elapsed days, zero-filling
// vacated slots. For elapsed >= WindowDays everything falls off the window.
func (h History) shifted(elapsed int64) History {
	var out History
	if elapsed <= 0 {
		return h
	}
	if elapsed >= WindowDays {
		return out
	}
	for i := int64(0); i+elapsed < WindowDays; i++ {
		out[i+elapsed] = h[i]
	}
	return out
}

// Generation is one immutable, atomically published state of the volume
// cache. Concurrent readers holding an older generation keep a consistent
// view while a refresh builds the next one.
type Generation struct {
	Number      uint64
	Day         int64 // UTC epoch day of slot 0
	Epoch       uint64
	RefreshedAt time.Time
	Histories   map[uint64]History
}

// History returns the identity's rolling history. Unknown identities get a
// zeroed history, so "zero activity" and "never seen" render identically
// on read, which is what the score vector wants.
func (g *Generation) History(uid uint64) History {
	return g.Histories[uid]
}

// UIDs returns all identities known to this generation in ascending order.
func (g *Generation) UIDs() []uint64 {
	uids := make([]uint64, 0, len(g.Histories))
	for uid := range g.Histories {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids
}

// IdentityHistory pairs an identity with its rolling history, for list views.
type IdentityHistory struct {
	UID          uint64  `json:"uid"`
	DailyVolumes History `json:"daily_volumes"`
}

// FetchFunc returns the cumulative stake (in wei, both sides summed) one
// identity has placed in one epoch.
type FetchFunc func(ctx context.Context, uid uint64, epoch uint64) (sdkmath.Int, error)

// Cache maintains the rolling daily-stake history for every identity,
// refreshed from the betting contract and published as immutable
// generations.
type Cache struct {
	mu             sync.Mutex // serializes Refresh
	current        atomic.Pointer[Generation]
	maxConcurrency int

	// seen tracks the last observed per-epoch cumulative total per
	// identity so the open epoch can be re-fetched without double
	// counting. Guarded by mu.
	seen map[uint64]map[uint64]float64
}

func NewCache(maxConcurrency int) *Cache {
	c := &Cache{
		maxConcurrency: maxConcurrency,
		seen:           make(map[uint64]map[uint64]float64),
	}
	c.current.Store(&Generation{
		Histories: make(map[uint64]History),
	})
	return c
}

// Current returns the most recently completed generation. Never nil.
func (c *Cache) Current() *Generation {
	return c.current.Load()
}

type fetchResult struct {
	uid    uint64
	epoch  uint64
	amount float64
}

// Refresh fetches stake for every identity for the epochs between the
// previous refresh and epoch, folds the increments into slot 0 and
// publishes a new generation. Day boundaries elapsed since the previous
// refresh shift the window first, so a catch-up after downtime records the
// intervening days as zero rather than skipping them. Calling with zero
// elapsed days and no new stake is a no-op on the histories.
//
// Any fetch failure leaves the previous generation (and the idempotency
// bookkeeping) untouched; the caller retries on its next tick.
func (c *Cache) Refresh(ctx context.Context, now time.Time, epoch uint64, uids []uint64, fetch FetchFunc) (*Generation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.current.Load()
	day := epochDay(now)

	elapsed := day - prev.Day
	if prev.Day == 0 || elapsed < 0 {
		// first refresh, or clock went backwards
		elapsed = 0
	}

	// union of previously known identities and the ones reported now
	histories := make(map[uint64]History, len(prev.Histories)+len(uids))
	for uid, h := range prev.Histories {
		histories[uid] = h.shifted(elapsed)
	}
	for _, uid := range uids {
		if _, ok := histories[uid]; !ok {
			histories[uid] = History{}
		}
	}

	firstEpoch := prev.Epoch
	if firstEpoch == 0 || firstEpoch > epoch {
		firstEpoch = epoch
	}

	p := pool.NewWithResults[fetchResult]().
		WithContext(ctx).
		WithMaxGoroutines(c.maxConcurrency).
		WithCancelOnError()

	for _, uid := range uids {
		for e := firstEpoch; e <= epoch; e++ {
			uid, e := uid, e
			p.Go(func(ctx context.Context) (fetchResult, error) {
				stake, err := fetch(ctx, uid, e)
				if err != nil {
					return fetchResult{}, fmt.Errorf("failed to fetch stake for uid %d epoch %d: %w", uid, e, err)
				}
				return fetchResult{
					uid:    uid,
					epoch:  e,
					amount: weiToUnits(stake),
				}, nil
			})
		}
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		epochs, ok := c.seen[r.uid]
		if !ok {
			epochs = make(map[uint64]float64)
			c.seen[r.uid] = epochs
		}
		delta := r.amount - epochs[r.epoch]
		if delta > 0 {
			h := histories[r.uid]
			h[0] += delta
			histories[r.uid] = h
		}
		epochs[r.epoch] = r.amount
	}

	c.pruneSeen(epoch)

	next := &Generation{
		Number:      prev.Number + 1,
		Day:         day,
		Epoch:       epoch,
		RefreshedAt: now,
		Histories:   histories,
	}
	c.current.Store(next)

	log.Debug().
		Uint64("generation", next.Number).
		Uint64("epoch", epoch).
		Int("identities", len(histories)).
		Int64("elapsed_days", elapsed).
		Msg("volume cache refreshed")

	return next, nil
}

func (c *Cache) pruneSeen(currentEpoch uint64) {
	if currentEpoch < epochRetention {
		return
	}
	cutoff := currentEpoch - epochRetention
	for uid, epochs := range c.seen {
		for e := range epochs {
			if e < cutoff {
				delete(epochs, e)
			}
		}
		if len(epochs) == 0 {
			delete(c.seen, uid)
		}
	}
}

func epochDay(t time.Time) int64 {
	return t.UTC().Unix() / 86400
}

func weiToUnits(wei sdkmath.Int) float64 {
	if wei.IsNil() || !wei.IsPositive() {
		return 0
	}
	units, err := sdkmath.LegacyNewDecFromInt(wei).Quo(weiPerUnit).Float64()
	if err != nil {
		log.Warn().Str("wei", wei.String()).Msg("stake amount out of float range, clamping to zero")
		return 0
	}
	return units
}
