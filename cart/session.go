package cart

import (
	"context"
	"sync"
	"time"
)

// remoteSyncTimeout bounds every background call to the cart service.
const remoteSyncTimeout = 10 * time.Second

// Session owns the authoritative in-memory cart for one browsing session.
// Local and remote stores are passive copies: the session reads them when an
// identity is loaded and writes them on every mutation, but once loaded the
// in-memory cart is the single source of truth.
//
// Mutations update the local slot synchronously and, for authenticated
// identities, push the new snapshot to the cart service in the background.
// A new mutation supersedes any in-flight push: the stale request is
// cancelled so it cannot clobber newer state, and the latest snapshot wins.
type Session struct {
	store  *SlotStore
	remote *RemoteClient

	mu         sync.Mutex
	identity   Identity
	items      Items
	loaded     bool
	gen        uint64
	cancelSync context.CancelFunc
	subs       []func(Items)

	wg sync.WaitGroup
}

func NewSession(store *SlotStore, remote *RemoteClient) *Session {
	return &Session{store: store, remote: remote}
}

// SetIdentity switches the cart owner. Same identity is a no-op. On a change
// the previous cart is abandoned (carts are never auto-merged across
// identities), the local slot for the new identity is loaded synchronously,
// and for authenticated identities a background fetch asks the cart service
// for the account's cart. A successful fetch replaces the cart in full and
// is written back to the local slot; an unavailable remote leaves the
// locally loaded cart standing. Mutations made while the fetch is in flight
// win over the fetch result.
func (s *Session) SetIdentity(id Identity) {
	s.mu.Lock()
	if s.loaded && s.identity == id {
		s.mu.Unlock()
		return
	}

	// Abandon the old identity's cart and any in-flight sync for it.
	if s.cancelSync != nil {
		s.cancelSync()
		s.cancelSync = nil
	}
	s.identity = id
	s.loaded = true
	s.gen++
	gen := s.gen
	s.items = s.store.Load(id.SlotKey())

	fetch := id.Authenticated() && s.remote.Enabled()
	if fetch {
		s.wg.Add(1)
	}
	subs, snapshot := s.stateLocked()
	s.mu.Unlock()
	notify(subs, snapshot)

	if !fetch {
		return
	}

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteSyncTimeout)
		defer cancel()

		remoteItems, ok := s.remote.Fetch(ctx, id.UserKey)
		if !ok {
			return
		}

		s.mu.Lock()
		if s.gen != gen {
			// The identity changed again or the user mutated the cart while
			// the fetch was in flight; the newer state wins.
			s.mu.Unlock()
			return
		}
		s.items = remoteItems
		s.store.Save(id.SlotKey(), s.items)
		subs, snapshot := s.stateLocked()
		s.mu.Unlock()
		notify(subs, snapshot)
	}()
}

// Add merges a line into the cart and returns the new snapshot.
func (s *Session) Add(line Line) Items {
	return s.apply(func(items Items) Items {
		return Add(items, line)
	})
}

// Remove deletes the line for productID, if present.
func (s *Session) Remove(productID int64) Items {
	return s.apply(func(items Items) Items {
		return Remove(items, productID)
	})
}

// SetQuantity updates the quantity on an existing line. The bool reports
// whether the line existed.
func (s *Session) SetQuantity(productID int64, quantity int) (Items, bool) {
	var found bool
	items := s.apply(func(items Items) Items {
		next, ok := SetQuantity(items, productID, quantity)
		found = ok
		return next
	})
	return items, found
}

// Clear empties the cart and deletes the local slot. The remote record is
// overwritten with an empty cart but never deleted.
func (s *Session) Clear() {
	s.mu.Lock()
	s.items = nil
	s.gen++
	s.store.Clear(s.identity.SlotKey())
	s.scheduleSyncLocked()
	subs, snapshot := s.stateLocked()
	s.mu.Unlock()
	notify(subs, snapshot)
}

// Snapshot returns a copy of the authoritative cart.
func (s *Session) Snapshot() Items {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Total returns the derived cart total.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

// Subscribe registers fn to be called with a snapshot after every change to
// the authoritative cart. Subscribers must not mutate the snapshot.
func (s *Session) Subscribe(fn func(Items)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Wait blocks until every background sync spawned so far has finished.
// Used on shutdown and in tests.
func (s *Session) Wait() {
	s.wg.Wait()
}

// apply runs a pure cart operation under the session lock, persists the
// result locally and schedules a remote push. Store failures never surface:
// the mutation always takes effect in memory.
func (s *Session) apply(f func(Items) Items) Items {
	s.mu.Lock()
	s.items = f(s.items)
	s.gen++
	s.store.Save(s.identity.SlotKey(), s.items)
	s.scheduleSyncLocked()
	subs, snapshot := s.stateLocked()
	s.mu.Unlock()
	notify(subs, snapshot)
	return snapshot
}

// scheduleSyncLocked pushes the current snapshot to the cart service for
// authenticated identities. Any in-flight push is cancelled first so a stale
// write cannot land after a newer one.
func (s *Session) scheduleSyncLocked() {
	if !s.identity.Authenticated() || !s.remote.Enabled() {
		return
	}
	if s.cancelSync != nil {
		s.cancelSync()
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteSyncTimeout)
	s.cancelSync = cancel
	userKey := s.identity.UserKey
	snapshot := s.items.Clone()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.remote.Upsert(ctx, userKey, snapshot)
	}()
}

func (s *Session) stateLocked() ([]func(Items), Items) {
	subs := make([]func(Items), len(s.subs))
	copy(subs, s.subs)
	return subs, s.items.Clone()
}

// notify runs outside the session lock so a subscriber can safely call back
// into the session.
func notify(subs []func(Items), snapshot Items) {
	for _, fn := range subs {
		fn(snapshot)
	}
}
