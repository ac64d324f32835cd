// Package memstore provides in-memory implementations of the repository
// ports for use in tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

// Store bundles the in-memory repositories. Setting Err makes every
// repository call fail with it.
type Store struct {
	mu sync.Mutex

	users     map[string]*domain.User
	resources map[string]*domain.Resource
	events    []domain.DownloadEvent
	revoked   map[string]time.Time

	Err error

	Users       *Users
	Resources   *Resources
	Events      *Events
	Revocations *Revocations
}

func New() *Store {
	s := &Store{
		users:     make(map[string]*domain.User),
		resources: make(map[string]*domain.Resource),
		revoked:   make(map[string]time.Time),
	}
	s.Users = &Users{s: s}
	s.Resources = &Resources{s: s}
	s.Events = &Events{s: s}
	s.Revocations = &Revocations{s: s}
	return s
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.RecentViews = slices.Clone(u.RecentViews)
	c.Bookmarks = slices.Clone(u.Bookmarks)
	if c.RecentViews == nil {
		c.RecentViews = []string{}
	}
	if c.Bookmarks == nil {
		c.Bookmarks = []string{}
	}
	return &c
}

func cloneResource(r *domain.Resource, withContent bool) *domain.Resource {
	c := *r
	if withContent {
		c.FileContent = slices.Clone(r.FileContent)
	} else {
		c.FileContent = nil
	}
	return &c
}

// ── Users ─────────────────────────────────────────────────────────────────────

// Users implements ports.UserRepository.
type Users struct{ s *Store }

var _ ports.UserRepository = (*Users)(nil)

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *Users) ListAll(_ context.Context, limit int) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := cloneUser(u)
		c.PasswordHash = ""
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Users) RecordDownload(_ context.Context, userID, resourceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Downloads++
	u.RecentViews = domain.PushRecentView(u.RecentViews, resourceID)
	return nil
}

func (r *Users) ToggleBookmark(_ context.Context, userID, resourceID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	var bookmarked bool
	u.Bookmarks, bookmarked = domain.ToggleBookmark(u.Bookmarks, resourceID)
	return bookmarked, nil
}

func (r *Users) SetRole(_ context.Context, email, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ── Resources ─────────────────────────────────────────────────────────────────

// Resources implements ports.ResourceRepository.
type Resources struct{ s *Store }

var _ ports.ResourceRepository = (*Resources)(nil)

// sorted returns clones of the resources matching keep, newest first.
func (r *Resources) sorted(keep func(*domain.Resource) bool, less func(a, b *domain.Resource) bool, limit int) []*domain.Resource {
	out := make([]*domain.Resource, 0)
	for _, res := range r.s.resources {
		if keep(res) {
			out = append(out, cloneResource(res, false))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func newestFirst(a, b *domain.Resource) bool { return a.UploadedAt.After(b.UploadedAt) }

func (r *Resources) ListRecent(_ context.Context, limit int) ([]*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.sorted(func(*domain.Resource) bool { return true }, newestFirst, limit), nil
}

func (r *Resources) Search(_ context.Context, f ports.ResourceFilter, limit int) ([]*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	text := strings.ToLower(f.Text)
	return r.sorted(func(res *domain.Resource) bool {
		if f.Department != "" && res.Department != f.Department {
			return false
		}
		if f.Year != "" && res.Year != f.Year {
			return false
		}
		if f.Type != "" && res.Type != f.Type {
			return false
		}
		if text == "" {
			return true
		}
		return strings.Contains(strings.ToLower(res.Title), text) ||
			strings.Contains(strings.ToLower(res.Description), text) ||
			strings.Contains(strings.ToLower(res.Subject), text)
	}, newestFirst, limit), nil
}

func (r *Resources) get(id string, withContent bool) (*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	res, ok := r.s.resources[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return cloneResource(res, withContent), nil
}

func (r *Resources) GetByID(_ context.Context, id string) (*domain.Resource, error) {
	return r.get(id, false)
}

func (r *Resources) GetWithContent(_ context.Context, id string) (*domain.Resource, error) {
	return r.get(id, true)
}

func (r *Resources) Create(_ context.Context, res *domain.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.resources[res.ID] = cloneResource(res, true)
	return nil
}

func (r *Resources) Update(_ context.Context, id string, patch domain.ResourcePatch, at time.Time) (*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	res, ok := r.s.resources[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	patch.Apply(res)
	res.UpdatedAt = &at
	return cloneResource(res, false), nil
}

func (r *Resources) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	if _, ok := r.s.resources[id]; !ok {
		return false, nil
	}
	delete(r.s.resources, id)
	return true, nil
}

func (r *Resources) IncrementDownloadCount(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if res, ok := r.s.resources[id]; ok {
		res.DownloadCount++
	}
	return nil
}

func (r *Resources) CountByUploader(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var n int64
	for _, res := range r.s.resources {
		if res.UploadedBy == userID {
			n++
		}
	}
	return n, nil
}

func (r *Resources) ListByUploader(_ context.Context, userID string, limit int) ([]*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.sorted(func(res *domain.Resource) bool { return res.UploadedBy == userID }, newestFirst, limit), nil
}

// ListByIDs returns matches sorted by id so callers cannot rely on input order.
func (r *Resources) ListByIDs(_ context.Context, ids []string, limit int) ([]*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.sorted(func(res *domain.Resource) bool { return slices.Contains(ids, res.ID) },
		func(a, b *domain.Resource) bool { return a.ID < b.ID }, limit), nil
}

func (r *Resources) TopByDownloadCount(_ context.Context, limit int) ([]*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.sorted(func(*domain.Resource) bool { return true }, func(a, b *domain.Resource) bool {
		if a.DownloadCount != b.DownloadCount {
			return a.DownloadCount > b.DownloadCount
		}
		return newestFirst(a, b)
	}, limit), nil
}

// ── Download events ───────────────────────────────────────────────────────────

// Events implements ports.DownloadEventRepository.
type Events struct{ s *Store }

var _ ports.DownloadEventRepository = (*Events)(nil)

func (r *Events) InsertDownload(_ context.Context, event *domain.DownloadEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.events = append(r.s.events, *event)
	return nil
}

// All returns a copy of the recorded events.
func (r *Events) All() []domain.DownloadEvent {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.events)
}

// ── Revocations ───────────────────────────────────────────────────────────────

// Revocations implements ports.TokenRevoker. It is unaffected by Store.Err.
type Revocations struct{ s *Store }

var _ ports.TokenRevoker = (*Revocations)(nil)

func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = until
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	until, ok := r.s.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}
