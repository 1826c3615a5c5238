package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"complaint-portal/complaint-service/internal/config"
	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/shared/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	svc        *ComplaintService
	repo       *memoryRepo
	users      *memoryUsers
	categories *memoryCategories
	images     *memoryImages
	cache      *memoryCache

	citizen     models.Principal
	stranger    models.Principal
	institution models.Principal
	admin       models.Principal
	category    models.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:       newMemoryRepo(),
		users:      &memoryUsers{users: map[primitive.ObjectID]models.User{}},
		categories: &memoryCategories{categories: map[primitive.ObjectID]models.Category{}},
		images:     &memoryImages{},
		cache:      newMemoryCache(),
	}

	cfg := &config.Config{MaxImageBytes: 1 << 20, StatsCacheTTL: time.Minute}
	env.svc = NewComplaintService(env.repo, env.users, env.categories, env.images, NewCountSequence(env.repo, time.UTC), cfg).
		WithStatsCache(env.cache).
		WithLogger(logger.Discard())
	env.svc.now = func() time.Time { return fixedNow }

	env.category = env.categories.add("Water Supply", "WASAC")

	citizen := env.users.add(models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleCitizen})
	other := env.users.add(models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleCitizen})
	inst := env.users.add(models.User{
		Name: "WASAC", Email: "wasac@example.com", Role: models.RoleInstitution,
		Department: "WASAC", ApprovalStatus: models.ApprovalApproved,
	})
	admin := env.users.add(models.User{Name: "Root", Email: "admin@example.com", Role: models.RoleAdmin})

	env.citizen = citizen.Principal()
	env.stranger = other.Principal()
	env.institution = inst.Principal()
	env.admin = admin.Principal()
	return env
}

func (e *testEnv) input() CreateInput {
	return CreateInput{
		Title:       "Broken pipe",
		Description: "Water leaking on the main road",
		Category:    e.category.ID.Hex(),
		Province:    "Kigali",
		District:    "Nyarugenge",
		Sector:      "Gitega",
	}
}

func (e *testEnv) create(t *testing.T, actor models.Principal) *models.ComplaintView {
	t.Helper()
	view, err := e.svc.Create(context.Background(), actor, e.input())
	require.NoError(t, err)
	return view
}

var codePattern = regexp.MustCompile(`^CMP-\d{2}-\d{5}$`)

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.citizen, env.input())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	require.Len(t, created.StatusHistory, 1)
	assert.Equal(t, created.Status, created.StatusHistory[0].Status)
	assert.Equal(t, "Complaint submitted", created.StatusHistory[0].Comment)
	assert.Equal(t, env.citizen.ID.Hex(), created.StatusHistory[0].UpdatedBy)
	assert.Regexp(t, codePattern, created.ComplaintID)
	assert.True(t, strings.HasPrefix(created.ComplaintID, "CMP-24-"))
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, "Water Supply", created.Category.Name)
	assert.Nil(t, created.AssignedTo)

	instID := env.institution.ID.Hex()
	assigned, err := env.svc.Assign(ctx, env.admin, created.ID, &instID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, instID, assigned.AssignedTo.ID)
	assert.Equal(t, "WASAC", assigned.AssignedTo.Name)

	moved, err := env.svc.Transition(ctx, env.institution, created.ID, "in-progress", "Investigating")
	require.NoError(t, err)
	require.Len(t, moved.StatusHistory, 2)
	latest := moved.StatusHistory[1]
	assert.Equal(t, models.StatusInProgress, latest.Status)
	assert.Equal(t, instID, latest.UpdatedBy)
	assert.Equal(t, "Investigating", latest.Comment)

	responded, err := env.svc.AddResponse(ctx, env.institution, created.ID, "Crew dispatched")
	require.NoError(t, err)
	require.Len(t, responded.Responses, 1)
	assert.Equal(t, "Crew dispatched", responded.Responses[0].Message)
	assert.Equal(t, "WASAC", responded.Responses[0].From.Name)

	require.NoError(t, env.svc.Delete(ctx, env.admin, created.ID))

	_, err = env.svc.Read(ctx, env.admin, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		actor   models.Principal
		mutate  func(*CreateInput)
		wantErr error
		wantMsg string
	}{
		{"institution cannot submit", env.institution, func(*CreateInput) {}, models.ErrForbidden, "submit complaints"},
		{"admin cannot submit", env.admin, func(*CreateInput) {}, models.ErrForbidden, "submit complaints"},
		{"blank title", env.citizen, func(in *CreateInput) { in.Title = "   " }, models.ErrValidation, "title is required"},
		{"title too long", env.citizen, func(in *CreateInput) { in.Title = strings.Repeat("é", 101) }, models.ErrValidation, "title cannot be more than 100"},
		{"blank description", env.citizen, func(in *CreateInput) { in.Description = "" }, models.ErrValidation, "description is required"},
		{"malformed category", env.citizen, func(in *CreateInput) { in.Category = "water" }, models.ErrValidation, "category must be a valid id"},
		{"unknown category", env.citizen, func(in *CreateInput) { in.Category = primitive.NewObjectID().Hex() }, models.ErrValidation, "category does not exist"},
		{"missing province", env.citizen, func(in *CreateInput) { in.Province = "" }, models.ErrValidation, "province is required"},
		{"missing district", env.citizen, func(in *CreateInput) { in.District = "" }, models.ErrValidation, "district is required"},
		{"missing sector", env.citizen, func(in *CreateInput) { in.Sector = " " }, models.ErrValidation, "sector is required"},
		{"bad priority", env.citizen, func(in *CreateInput) { in.Priority = "urgent" }, models.ErrValidation, "priority must be one of"},
		{"bad national id", env.citizen, func(in *CreateInput) { in.NationalID = "12345" }, models.ErrValidation, "16 digits"},
		{"bad phone", env.citizen, func(in *CreateInput) { in.Phone = "0761234567" }, models.ErrValidation, "phone"},
		{"first failing field wins", env.citizen, func(in *CreateInput) { in.Title = ""; in.Province = "" }, models.ErrValidation, "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := env.input()
			tt.mutate(&in)

			_, err := env.svc.Create(context.Background(), tt.actor, in)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	assert.Equal(t, 0, env.repo.len())
}

func TestCreate_OptionalFields(t *testing.T) {
	env := newTestEnv(t)

	in := env.input()
	in.Priority = "HIGH"
	in.NationalID = "1199880012345678"
	in.Phone = "+250788123456"
	in.Cell = "Kora"

	view, err := env.svc.Create(context.Background(), env.citizen, in)
	require.NoError(t, err)

	assert.Equal(t, models.PriorityHigh, view.Priority)
	assert.Equal(t, "1199880012345678", view.NationalID)
	assert.Equal(t, "+250788123456", view.Phone)
	assert.Equal(t, "Kora", view.Cell)
	assert.Equal(t, "", view.Village)
	assert.Equal(t, "", view.ImageURL)
}

func TestCreate_Image(t *testing.T) {
	t.Run("stores url", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.input()
		in.Image = &models.ImageUpload{Filename: "pipe.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("jpeg")}

		view, err := env.svc.Create(context.Background(), env.citizen, in)
		require.NoError(t, err)

		require.Len(t, env.images.saved, 1)
		assert.Equal(t, env.images.saved[0], view.ImageURL)
	})

	t.Run("rejects non images", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.input()
		in.Image = &models.ImageUpload{Filename: "doc.pdf", ContentType: "application/pdf", Size: 512, Body: strings.NewReader("pdf")}

		_, err := env.svc.Create(context.Background(), env.citizen, in)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Empty(t, env.images.saved)
	})

	t.Run("rejects oversized images", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.input()
		in.Image = &models.ImageUpload{Filename: "big.png", ContentType: "image/png", Size: 2 << 20, Body: strings.NewReader("png")}

		_, err := env.svc.Create(context.Background(), env.citizen, in)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Empty(t, env.images.saved)
	})

	t.Run("removes upload when insert fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.createErr = errors.New("connection reset")
		in := env.input()
		in.Image = &models.ImageUpload{Filename: "pipe.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("jpeg")}

		_, err := env.svc.Create(context.Background(), env.citizen, in)
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrValidation)

		require.Len(t, env.images.saved, 1)
		assert.Equal(t, env.images.saved, env.images.removed)
		assert.Equal(t, 0, env.repo.len())
	})
}

func TestCreate_SequentialCodes(t *testing.T) {
	env := newTestEnv(t)

	seen := map[string]bool{}
	for i := 1; i <= 12; i++ {
		view := env.create(t, env.citizen)
		assert.False(t, seen[view.ComplaintID], "duplicate code %s", view.ComplaintID)
		seen[view.ComplaintID] = true
		assert.Equal(t, models.FormatComplaintCode(2024, int64(i)), view.ComplaintID)
	}
}

func TestCreate_CodeSkipsPastDeletedGap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.create(t, env.citizen)
	env.create(t, env.citizen)
	require.NoError(t, env.svc.Delete(ctx, env.admin, first.ID))

	third := env.create(t, env.citizen)
	assert.Equal(t, "CMP-24-00003", third.ComplaintID)
}

func runConcurrentCreates(t *testing.T, env *testEnv, n int) ([]string, []error) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes []string
		errs  []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			view, err := env.svc.Create(context.Background(), env.citizen, env.input())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			codes = append(codes, view.ComplaintID)
		}()
	}
	close(start)
	wg.Wait()
	return codes, errs
}

func TestCreate_ConcurrentCountSequenceNeverDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.repo.beforeCreate = func() { time.Sleep(time.Millisecond) }

	const n = 16
	codes, errs := runConcurrentCreates(t, env, n)

	for _, err := range errs {
		assert.ErrorIs(t, err, models.ErrConflict)
	}
	assert.Equal(t, n, len(codes)+len(errs))
	assert.Equal(t, len(codes), env.repo.len())

	unique := map[string]bool{}
	for _, c := range codes {
		assert.False(t, unique[c], "duplicate code %s", c)
		unique[c] = true
	}

	// Any collision must have been observed and retried, not silently stored.
	if len(errs) > 0 {
		assert.Positive(t, env.repo.conflicts)
	}
}

func TestCreate_ConcurrentRedisSequenceIsGapFree(t *testing.T) {
	env := newTestEnv(t)
	env.svc.seq = NewRedisSequence(newMemoryCounter(), env.repo, time.UTC)
	env.repo.beforeCreate = func() { time.Sleep(time.Millisecond) }

	const n = 25
	codes, errs := runConcurrentCreates(t, env, n)

	require.Empty(t, errs)
	assert.Zero(t, env.repo.conflicts)

	want := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		want = append(want, models.FormatComplaintCode(2024, int64(i)))
	}
	assert.ElementsMatch(t, want, codes)
}

func TestRedisSequence_SeedsFromStore(t *testing.T) {
	repo := newMemoryRepo()
	repo.put(models.Complaint{ComplaintID: "CMP-24-00007", CreatedAt: fixedNow})
	repo.put(models.Complaint{ComplaintID: "CMP-23-00050", CreatedAt: fixedNow.AddDate(-1, 0, 0)})

	counter := newMemoryCounter()
	seq := NewRedisSequence(counter, repo, time.UTC)

	n, err := seq.Next(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	n, err = seq.Next(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	n, err = seq.Next(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type collidingSequence struct{}

func (collidingSequence) Next(context.Context, int) (int64, error) { return 1, nil }

func TestCreate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.repo.put(models.Complaint{ComplaintID: "CMP-24-00001", CreatedAt: fixedNow})
	env.svc.seq = collidingSequence{}

	_, err := env.svc.Create(context.Background(), env.citizen, env.input())

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, maxCodeAttempts, env.repo.conflicts)
}

func TestTransition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.create(t, env.citizen)

	t.Run("citizen is forbidden", func(t *testing.T) {
		_, err := env.svc.Transition(ctx, env.citizen, created.ID, "resolved", "")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("status validated before lookup", func(t *testing.T) {
		_, err := env.svc.Transition(ctx, env.admin, primitive.NewObjectID().Hex(), "closed", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown complaint", func(t *testing.T) {
		_, err := env.svc.Transition(ctx, env.admin, primitive.NewObjectID().Hex(), "resolved", "")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := env.svc.Transition(ctx, env.admin, "nope", "resolved", "")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		sequence := []models.Status{
			models.StatusRejected, models.StatusPending, models.StatusInProgress,
			models.StatusInProgress, models.StatusResolved, models.StatusRejected, models.StatusInProgress,
		}
		for i, next := range sequence {
			view, err := env.svc.Transition(ctx, env.admin, created.ID, string(next), "step")
			require.NoError(t, err)
			assert.Equal(t, next, view.Status)
			assert.Len(t, view.StatusHistory, i+2)
			assert.Equal(t, next, view.StatusHistory[len(view.StatusHistory)-1].Status)
		}
	})
}

func TestCanTransitionIsTotal(t *testing.T) {
	for _, from := range models.Statuses {
		for _, to := range models.Statuses {
			assert.True(t, models.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, models.CanTransition(models.StatusPending, "closed"))
}

func TestAssign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.create(t, env.citizen)

	pending := env.users.add(models.User{Name: "REG", Role: models.RoleInstitution, ApprovalStatus: models.ApprovalPending})
	rejected := env.users.add(models.User{Name: "RURA", Role: models.RoleInstitution, ApprovalStatus: models.ApprovalRejected})

	notFound := []struct {
		name string
		id   string
	}{
		{"citizen target", env.citizen.ID.Hex()},
		{"admin target", env.admin.ID.Hex()},
		{"pending institution", pending.ID.Hex()},
		{"rejected institution", rejected.ID.Hex()},
		{"missing principal", primitive.NewObjectID().Hex()},
		{"malformed id", "wasac"},
	}
	for _, tt := range notFound {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.id
			_, err := env.svc.Assign(ctx, env.admin, created.ID, &id)
			require.ErrorIs(t, err, models.ErrNotFound)
			assert.Contains(t, err.Error(), "institution not found or not approved")
		})
	}

	t.Run("only admin", func(t *testing.T) {
		id := env.institution.ID.Hex()
		_, err := env.svc.Assign(ctx, env.institution, created.ID, &id)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("assign then clear", func(t *testing.T) {
		id := env.institution.ID.Hex()
		view, err := env.svc.Assign(ctx, env.admin, created.ID, &id)
		require.NoError(t, err)
		require.NotNil(t, view.AssignedTo)
		assert.Equal(t, id, view.AssignedTo.ID)

		view, err = env.svc.Assign(ctx, env.admin, created.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, view.AssignedTo)

		empty := ""
		_, err = env.svc.Assign(ctx, env.admin, created.ID, &id)
		require.NoError(t, err)
		view, err = env.svc.Assign(ctx, env.admin, created.ID, &empty)
		require.NoError(t, err)
		assert.Nil(t, view.AssignedTo)
	})

	t.Run("unknown complaint", func(t *testing.T) {
		id := env.institution.ID.Hex()
		_, err := env.svc.Assign(ctx, env.admin, primitive.NewObjectID().Hex(), &id)
		require.ErrorIs(t, err, models.ErrNotFound)
		assert.Contains(t, err.Error(), "complaint not found")
	})
}

func TestAddResponse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.create(t, env.citizen)

	_, err := env.svc.AddResponse(ctx, env.citizen, created.ID, "hello")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = env.svc.AddResponse(ctx, env.admin, created.ID, "   ")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.svc.AddResponse(ctx, env.admin, primitive.NewObjectID().Hex(), "hello")
	assert.ErrorIs(t, err, models.ErrNotFound)

	first, err := env.svc.AddResponse(ctx, env.admin, created.ID, "Received")
	require.NoError(t, err)
	second, err := env.svc.AddResponse(ctx, env.institution, created.ID, "On it")
	require.NoError(t, err)

	assert.Len(t, first.Responses, 1)
	require.Len(t, second.Responses, 2)
	assert.Equal(t, "Received", second.Responses[0].Message)
	assert.Equal(t, "Root", second.Responses[0].From.Name)
	assert.Equal(t, "On it", second.Responses[1].Message)
	assert.Len(t, second.StatusHistory, 1)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := env.input()
	in.Image = &models.ImageUpload{Filename: "a.png", ContentType: "image/png", Size: 10, Body: strings.NewReader("png")}
	created, err := env.svc.Create(ctx, env.citizen, in)
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.Delete(ctx, env.institution, created.ID), models.ErrForbidden)
	assert.ErrorIs(t, env.svc.Delete(ctx, env.admin, primitive.NewObjectID().Hex()), models.ErrNotFound)

	env.images.removeErr = errors.New("storage offline")
	require.NoError(t, env.svc.Delete(ctx, env.admin, created.ID))
	assert.Equal(t, []string{created.ImageURL}, env.images.removed)
	assert.Equal(t, 0, env.repo.len())

	assert.ErrorIs(t, env.svc.Delete(ctx, env.admin, created.ID), models.ErrNotFound)
}

func TestRead_Authorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.create(t, env.citizen)

	for _, actor := range []models.Principal{env.citizen, env.institution, env.admin} {
		view, err := env.svc.Read(ctx, actor, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ComplaintID, view.ComplaintID)
	}

	_, err := env.svc.Read(ctx, env.stranger, created.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = env.svc.Read(ctx, env.stranger, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
