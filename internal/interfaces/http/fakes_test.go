package http

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
)

type fakeAccount struct {
	ident    identity.Identity
	password string
}

// fakeProvider keeps accounts and opaque tokens in memory
type fakeProvider struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount // by uid
	tokens   map[string]string       // token -> uid
	seq      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
	}
}

func (p *fakeProvider) byEmail(email string) *fakeAccount {
	for _, a := range p.accounts {
		if a.ident.Email == email {
			return a
		}
	}
	return nil
}

func (p *fakeProvider) SignUp(_ context.Context, email, password, displayName string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.byEmail(email) != nil {
		return identity.Identity{}, identity.ErrEmailTaken
	}
	p.seq++
	ident := identity.Identity{UID: fmt.Sprintf("uid-%d", p.seq), Email: email, DisplayName: displayName}
	p.accounts[ident.UID] = &fakeAccount{ident: ident, password: password}
	return ident, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (identity.Identity, *identity.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.byEmail(email)
	if a == nil || a.password != password {
		return identity.Identity{}, nil, identity.ErrInvalidCredentials
	}
	p.seq++
	token := fmt.Sprintf("token-%d", p.seq)
	p.tokens[token] = a.ident.UID
	return a.ident, &identity.Token{Value: token}, nil
}

func (p *fakeProvider) SignOut(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for token, owner := range p.tokens {
		if owner == uid {
			delete(p.tokens, token)
		}
	}
	return nil
}

func (p *fakeProvider) Verify(_ context.Context, token string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	uid, ok := p.tokens[token]
	if !ok {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return p.accounts[uid].ident, nil
}

func (p *fakeProvider) Reauthenticate(_ context.Context, uid, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.accounts[uid]
	if !ok {
		return identity.ErrUnauthenticated
	}
	if a.password != password {
		return identity.ErrReauthFailed
	}
	return nil
}

func (p *fakeProvider) UpdateEmail(_ context.Context, uid, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if other := p.byEmail(email); other != nil && other.ident.UID != uid {
		return identity.ErrEmailTaken
	}
	p.accounts[uid].ident.Email = email
	return nil
}

func (p *fakeProvider) UpdatePassword(_ context.Context, uid, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[uid].password = password
	return nil
}

// fakeCatalog serves a fixed set of games
type fakeCatalog struct {
	games map[string]catalog.Detail
}

func newFakeCatalog(items ...catalog.Item) *fakeCatalog {
	c := &fakeCatalog{games: make(map[string]catalog.Detail)}
	for _, item := range items {
		c.games[item.Slug] = catalog.Detail{Item: item, Description: "<p>" + item.Name + "</p>"}
	}
	return c
}

func (c *fakeCatalog) ListGames(_ context.Context, params catalog.ListParams) (*catalog.Page, error) {
	params = params.Normalize(20, 40)
	items := make([]catalog.Item, 0, len(c.games))
	for _, d := range c.games {
		items = append(items, d.Item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return &catalog.Page{
		Count:      len(items),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: catalog.TotalPages(len(items), params.PageSize),
		Results:    items,
	}, nil
}

func (c *fakeCatalog) GetGame(_ context.Context, slug string) (*catalog.Detail, error) {
	d, ok := c.games[slug]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &d, nil
}

func (c *fakeCatalog) ListReviews(_ context.Context, slug string) ([]catalog.Review, error) {
	if _, ok := c.games[slug]; !ok {
		return nil, catalog.ErrNotFound
	}
	return []catalog.Review{{Username: "gamer", Rating: 5, Text: "great"}}, nil
}

func (c *fakeCatalog) ListGenres(context.Context) ([]catalog.Genre, error) {
	return []catalog.Genre{{ID: 4, Name: "Action", Slug: "action"}}, nil
}
