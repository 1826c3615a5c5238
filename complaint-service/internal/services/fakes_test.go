package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/shared/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryRepo evaluates ComplaintFilter in memory and enforces unique codes
// the way the complaintId index does.
type memoryRepo struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]models.Complaint
	codes     map[string]bool
	conflicts int
	createErr error
	// beforeCreate runs outside the lock so tests can widen race windows.
	beforeCreate func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		items: make(map[primitive.ObjectID]models.Complaint),
		codes: make(map[string]bool),
	}
}

func clone(c models.Complaint) models.Complaint {
	c.StatusHistory = append([]models.StatusEntry{}, c.StatusHistory...)
	c.Responses = append([]models.Response{}, c.Responses...)
	if c.AssignedTo != nil {
		id := *c.AssignedTo
		c.AssignedTo = &id
	}
	return c
}

func (r *memoryRepo) Create(_ context.Context, c *models.Complaint) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if r.codes[c.ComplaintID] {
		r.conflicts++
		return fmt.Errorf("%w: complaint code %s is already taken", models.ErrConflict, c.ComplaintID)
	}
	c.ID = primitive.NewObjectID()
	r.codes[c.ComplaintID] = true
	r.items[c.ID] = clone(*c)
	return nil
}

// put stores a complaint as-is, bypassing the engine.
func (r *memoryRepo) put(c models.Complaint) models.Complaint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.codes[c.ComplaintID] = true
	r.items[c.ID] = clone(c)
	return c
}

func (r *memoryRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *memoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := clone(c)
	return &out, nil
}

func (r *memoryRepo) update(id primitive.ObjectID, fn func(*models.Complaint)) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c = clone(c)
	fn(&c)
	r.items[id] = c
	out := clone(c)
	return &out, nil
}

func (r *memoryRepo) AppendStatus(_ context.Context, id primitive.ObjectID, entry models.StatusEntry) (*models.Complaint, error) {
	return r.update(id, func(c *models.Complaint) {
		c.Status = entry.Status
		c.UpdatedAt = entry.Timestamp
		c.StatusHistory = append(c.StatusHistory, entry)
	})
}

func (r *memoryRepo) SetAssignee(_ context.Context, id primitive.ObjectID, assignee *primitive.ObjectID, at time.Time) (*models.Complaint, error) {
	return r.update(id, func(c *models.Complaint) {
		c.AssignedTo = assignee
		c.UpdatedAt = at
	})
}

func (r *memoryRepo) AppendResponse(_ context.Context, id primitive.ObjectID, resp models.Response) (*models.Complaint, error) {
	return r.update(id, func(c *models.Complaint) {
		c.Responses = append(c.Responses, resp)
		c.UpdatedAt = resp.Timestamp
	})
}

func (r *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return models.ErrNotFound
	}
	delete(r.codes, c.ComplaintID)
	delete(r.items, id)
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func matches(f models.ComplaintFilter, c models.Complaint) bool {
	if f.Citizen != nil && c.Citizen != *f.Citizen {
		return false
	}
	if f.Institution != nil {
		assigned := c.AssignedTo != nil && *c.AssignedTo == f.Institution.Institution
		if !assigned && !containsID(f.Institution.Categories, c.Category) {
			return false
		}
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Category != nil && c.Category != *f.Category {
		return false
	}
	switch f.Assignment {
	case models.AssignmentNone:
		if c.AssignedTo != nil {
			return false
		}
	case models.AssignmentSome:
		if c.AssignedTo == nil {
			return false
		}
	case models.AssignmentTo:
		if c.AssignedTo == nil || *c.AssignedTo != f.Assignee {
			return false
		}
	}
	if !f.CreatedFrom.IsZero() && c.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedTo.IsZero() && !c.CreatedAt.Before(f.CreatedTo) {
		return false
	}
	return true
}

func compareField(a, b models.Complaint, field string) int {
	switch field {
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "priority":
		return strings.Compare(string(a.Priority), string(b.Priority))
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "complaintId":
		return strings.Compare(a.ComplaintID, b.ComplaintID)
	default:
		return bytes.Compare(a.ID[:], b.ID[:])
	}
}

func (r *memoryRepo) Find(_ context.Context, f models.ComplaintFilter, fields []models.SortField, skip, limit int64) ([]models.Complaint, error) {
	r.mu.Lock()
	var out []models.Complaint
	for _, c := range r.items {
		if matches(f, c) {
			out = append(out, clone(c))
		}
	}
	r.mu.Unlock()

	keys := append([]models.SortField{}, fields...)
	desc := true
	if len(fields) > 0 {
		desc = fields[0].Desc
	}
	keys = append(keys, models.SortField{Field: "_id", Desc: desc})

	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareField(out[i], out[j], k.Field)
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	if skip >= int64(len(out)) {
		return []models.Complaint{}, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) Count(_ context.Context, f models.ComplaintFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.items {
		if matches(f, c) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) CountByStatus(_ context.Context, f models.ComplaintFilter) (map[models.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.Status]int64{}
	for _, c := range r.items {
		if matches(f, c) {
			counts[c.Status]++
		}
	}
	return counts, nil
}

func (r *memoryRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	return r.Count(context.Background(), models.ComplaintFilter{CreatedFrom: from, CreatedTo: to})
}

func (r *memoryRepo) MaxSequence(_ context.Context, prefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for code := range r.codes {
		if n, ok := models.ParseComplaintSequence(code, prefix); ok && n > max {
			max = n
		}
	}
	return max, nil
}

type memoryUsers struct {
	users map[primitive.ObjectID]models.User
}

func (u *memoryUsers) add(user models.User) models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	u.users[user.ID] = user
	return user
}

func (u *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func (u *memoryUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := map[primitive.ObjectID]models.User{}
	for _, id := range ids {
		if user, ok := u.users[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (u *memoryUsers) CountUsers(_ context.Context, role models.Role, approval models.ApprovalStatus) (int64, error) {
	var n int64
	for _, user := range u.users {
		if (role == "" || user.Role == role) && (approval == "" || user.ApprovalStatus == approval) {
			n++
		}
	}
	return n, nil
}

type memoryCategories struct {
	categories map[primitive.ObjectID]models.Category
}

func (m *memoryCategories) add(name, department string) models.Category {
	c := models.Category{ID: primitive.NewObjectID(), Name: name, Department: department, IsActive: true}
	m.categories[c.ID] = c
	return c
}

func (m *memoryCategories) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *memoryCategories) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	out := map[primitive.ObjectID]models.Category{}
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *memoryCategories) Count(context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

func (m *memoryCategories) IDsByDepartment(_ context.Context, keyword string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	kw := strings.ToLower(keyword)
	for id, c := range m.categories {
		if strings.Contains(strings.ToLower(c.Department), kw) || strings.Contains(strings.ToLower(c.Name), kw) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memoryImages struct {
	mu        sync.Mutex
	saved     []string
	removed   []string
	saveErr   error
	removeErr error
}

func (m *memoryImages) Save(_ context.Context, owner primitive.ObjectID, img models.ImageUpload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	url := fmt.Sprintf("/uploads/photo_%s_%d_%s", owner.Hex(), len(m.saved), img.Filename)
	m.saved = append(m.saved, url)
	return url, nil
}

func (m *memoryImages) Remove(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, url)
	return m.removeErr
}

func (m *memoryImages) Open(context.Context, string) (io.ReadCloser, int64, string, error) {
	return nil, 0, "", models.ErrNotFound
}

type memoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{values: map[string]int64{}}
}

func (m *memoryCounter) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryCounter) SetNX(_ context.Context, key string, value int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

func (m *memoryCounter) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
	return m.values[key], nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	m.hits++
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}
