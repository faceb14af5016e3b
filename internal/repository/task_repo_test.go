package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

func seedTask(t *testing.T, db *gorm.DB, userID int64, title string, status domain.TaskStatus, priority domain.TaskPriority, tags ...domain.Tag) *domain.Task {
	t.Helper()
	task := &domain.Task{
		Title:    title,
		Status:   status,
		Priority: priority,
		UserID:   userID,
		Tags:     tags,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	return task
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testDB(t)
	alice := seedTestUser(t, db, "alice")
	bob := seedTestUser(t, db, "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	work := domain.Tag{Name: "work", Color: "#ffffff", UserID: alice.ID}
	require.NoError(t, NewTagRepository(db).Create(ctx, &work))

	seedTask(t, db, alice.ID, "Write report", domain.StatusPending, domain.PriorityHigh, work)
	seedTask(t, db, alice.ID, "Buy groceries", domain.StatusCompleted, domain.PriorityLow)
	seedTask(t, db, bob.ID, "Write code", domain.StatusPending, domain.PriorityHigh)

	// Owner scoping.
	tasks, total, err := repo.List(ctx, alice.ID, TaskFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)

	// Status filter.
	tasks, total, err = repo.List(ctx, alice.ID, TaskFilter{Status: domain.StatusPending, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Write report", tasks[0].Title)

	// Case-insensitive search.
	tasks, _, err = repo.List(ctx, alice.ID, TaskFilter{Search: "WRITE", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)

	// Tag filter, with tags preloaded.
	tasks, _, err = repo.List(ctx, alice.ID, TaskFilter{TagID: work.ID, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Tags, 1)
	assert.Equal(t, "work", tasks[0].Tags[0].Name)
}

func TestTaskRepository_ListSortWhitelist(t *testing.T) {
	db := testDB(t)
	alice := seedTestUser(t, db, "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, db, alice.ID, "b-task", domain.StatusPending, domain.PriorityLow)
	seedTask(t, db, alice.ID, "a-task", domain.StatusPending, domain.PriorityHigh)

	tasks, _, err := repo.List(ctx, alice.ID, TaskFilter{SortBy: "title", SortOrder: "asc", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a-task", tasks[0].Title)

	// Hostile sort column falls back to created_at instead of being
	// interpolated into the query.
	_, _, err = repo.List(ctx, alice.ID, TaskFilter{SortBy: "title; DROP TABLE tasks", Page: 1, PerPage: 20})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Task{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestTaskRepository_GetByID_OwnerScoped(t *testing.T) {
	db := testDB(t)
	alice := seedTestUser(t, db, "alice")
	bob := seedTestUser(t, db, "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := seedTask(t, db, alice.ID, "Write report", domain.StatusPending, domain.PriorityHigh)

	_, err := repo.GetByID(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestTaskRepository_BulkOpsScopeToOwner(t *testing.T) {
	db := testDB(t)
	alice := seedTestUser(t, db, "alice")
	bob := seedTestUser(t, db, "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	t1 := seedTask(t, db, alice.ID, "one", domain.StatusPending, domain.PriorityLow)
	t2 := seedTask(t, db, alice.ID, "two", domain.StatusPending, domain.PriorityLow)
	theirs := seedTask(t, db, bob.ID, "theirs", domain.StatusPending, domain.PriorityLow)

	updated, err := repo.BulkUpdate(ctx, alice.ID, []int64{t1.ID, t2.ID, theirs.ID}, map[string]any{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	got, err := repo.GetByID(ctx, theirs.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	deleted, err := repo.BulkDelete(ctx, alice.ID, []int64{t1.ID, t2.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.GetByID(ctx, theirs.ID, bob.ID)
	assert.NoError(t, err)
}

func TestTaskRepository_DueDateWindow(t *testing.T) {
	db := testDB(t)
	alice := seedTestUser(t, db, "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(10 * 24 * time.Hour)

	early := seedTask(t, db, alice.ID, "early", domain.StatusPending, domain.PriorityLow)
	early.DueDate = &soon
	require.NoError(t, repo.Update(ctx, early))

	late := seedTask(t, db, alice.ID, "late", domain.StatusPending, domain.PriorityLow)
	late.DueDate = &later
	require.NoError(t, repo.Update(ctx, late))

	cut := time.Now().Add(5 * 24 * time.Hour)
	tasks, _, err := repo.List(ctx, alice.ID, TaskFilter{DueBefore: &cut, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "early", tasks[0].Title)
}
