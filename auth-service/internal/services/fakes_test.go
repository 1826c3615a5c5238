package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"complaint-portal/auth-service/internal/models"
	"complaint-portal/shared/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[primitive.ObjectID]models.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, userNotFound()
}

func (m *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, userNotFound()
	}
	return &u, nil
}

func matchesFilter(u models.User, f models.UserFilter) bool {
	return (f.Role == "" || u.Role == f.Role) && (f.ApprovalStatus == "" || u.ApprovalStatus == f.ApprovalStatus)
}

func (m *memoryUsers) Find(_ context.Context, f models.UserFilter, skip, limit int64, sortByName bool) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if matchesFilter(u, f) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if sortByName {
			return out[i].Name < out[j].Name
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	if skip >= int64(len(out)) {
		return []models.User{}, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryUsers) Count(_ context.Context, f models.UserFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if matchesFilter(u, f) {
			n++
		}
	}
	return n, nil
}

func (m *memoryUsers) Update(_ context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, userNotFound()
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.NationalID != nil {
		u.NationalID = *upd.NationalID
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	if upd.Department != nil {
		u.Department = *upd.Department
	}
	if upd.InstitutionType != nil {
		u.InstitutionType = *upd.InstitutionType
	}
	if upd.ApprovalStatus != nil {
		u.SetApproval(*upd.ApprovalStatus)
	}
	if upd.RejectionReason != nil {
		u.RejectionReason = *upd.RejectionReason
	}
	if upd.HandledCategories != nil {
		u.HandledCategories = *upd.HandledCategories
	}
	m.users[id] = u
	return &u, nil
}

func (m *memoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return userNotFound()
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUsers) put(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return u
}

// memoryCache stores JSON like the Redis wrapper and doubles as the
// blacklist's key-value store.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) has(key string) bool {
	ok, _ := c.Exists(context.Background(), key)
	return ok
}
