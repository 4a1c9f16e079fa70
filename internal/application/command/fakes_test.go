package command

import (
	"context"
	"sync"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// In-memory fakes shared by the command handler tests.

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]*player.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]*player.Player)}
}

func (r *fakePlayerRepo) Create(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; ok {
		return player.ErrPlayerAlreadyExists
	}
	r.players[p.ID] = p.Clone()
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, player.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

func (r *fakePlayerRepo) GetByUserID(_ context.Context, userID string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.UserID == userID {
			return p.Clone(), nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *fakePlayerRepo) GetByEmail(_ context.Context, email string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Email == email {
			return p.Clone(), nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Update(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; !ok {
		return player.ErrPlayerNotFound
	}
	r.players[p.ID] = p.Clone()
	return nil
}

func (r *fakePlayerRepo) Mutate(_ context.Context, id string, fn func(*player.Player) error) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, player.ErrPlayerNotFound
	}
	working := p.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.players[id] = working
	return working.Clone(), nil
}

func (r *fakePlayerRepo) ListAll(_ context.Context) ([]*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*player.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *fakePlayerRepo) List(ctx context.Context, opts player.ListOptions) ([]*player.Player, error) {
	return r.ListAll(ctx)
}

func (r *fakePlayerRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players), nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username user.Username) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username user.Username) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*offer.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*offer.Offer)}
}

func (r *fakeOfferRepo) Create(_ context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[o.ID] = o.Clone()
	return nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id string) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	return o.Clone(), nil
}

func (r *fakeOfferRepo) Update(_ context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return offer.ErrOfferNotFound
	}
	r.offers[o.ID] = o.Clone()
	return nil
}

func (r *fakeOfferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return offer.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) List(_ context.Context, filter offer.ListFilter) ([]*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*offer.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

func (r *fakeOfferRepo) ExpireEnded(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, o := range r.offers {
		if o.Status != offer.StatusExpired && o.HasEnded(now) {
			o.Expire()
			count++
		}
	}
	return count, nil
}

type fakeEventBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *fakeEventBus) Publish(event shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *fakeEventBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }

func (b *fakeEventBus) Close() error { return nil }

func (b *fakeEventBus) published() []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]shared.Event(nil), b.events...)
}
