package comment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListByTask(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTaskGetter struct {
	mock.Mock
}

func (m *mockTaskGetter) GetAny(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func TestService_Create_UnknownTask(t *testing.T) {
	comments := new(mockCommentRepo)
	tasks := new(mockTaskGetter)
	svc := NewService(comments, tasks)

	tasks.On("GetAny", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 1, 9, "hello")

	assert.ErrorIs(t, err, ErrTaskNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Update_AuthorOnly(t *testing.T) {
	comments := new(mockCommentRepo)
	tasks := new(mockTaskGetter)
	svc := NewService(comments, tasks)

	comments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Comment{ID: 5, TaskID: 2, UserID: 10, Content: "old"}, nil)

	_, err := svc.Update(context.Background(), 99, 5, "new")

	assert.ErrorIs(t, err, ErrForbidden)
	comments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Delete_TaskOwnerAllowed(t *testing.T) {
	comments := new(mockCommentRepo)
	tasks := new(mockTaskGetter)
	svc := NewService(comments, tasks)

	comments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Comment{ID: 5, TaskID: 2, UserID: 10}, nil)
	tasks.On("GetAny", mock.Anything, int64(2)).
		Return(&domain.Task{ID: 2, UserID: 1}, nil)
	comments.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.Delete(context.Background(), 1, 5)

	require.NoError(t, err)
	comments.AssertExpectations(t)
}

func TestService_Delete_StrangerForbidden(t *testing.T) {
	comments := new(mockCommentRepo)
	tasks := new(mockTaskGetter)
	svc := NewService(comments, tasks)

	comments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Comment{ID: 5, TaskID: 2, UserID: 10}, nil)
	tasks.On("GetAny", mock.Anything, int64(2)).
		Return(&domain.Task{ID: 2, UserID: 1}, nil)

	err := svc.Delete(context.Background(), 99, 5)

	assert.ErrorIs(t, err, ErrForbidden)
	comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Delete_AuthorAllowed(t *testing.T) {
	comments := new(mockCommentRepo)
	tasks := new(mockTaskGetter)
	svc := NewService(comments, tasks)

	comments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Comment{ID: 5, TaskID: 2, UserID: 10}, nil)
	comments.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.Delete(context.Background(), 10, 5)

	require.NoError(t, err)
	tasks.AssertNotCalled(t, "GetAny", mock.Anything, mock.Anything)
}
