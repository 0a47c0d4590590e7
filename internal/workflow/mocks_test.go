package workflow

import (
	"context"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) LastPullRequests(ctx context.Context, owner, repo, branch string) ([]domain.PullRequestRef, error) {
	args := m.Called(ctx, owner, repo, branch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequestRef), args.Error(1)
}

func (m *MockAPI) PullRequestsPage(ctx context.Context, owner, repo, branch, cursor string) (domain.PullRequestPage, error) {
	args := m.Called(ctx, owner, repo, branch, cursor)
	return args.Get(0).(domain.PullRequestPage), args.Error(1)
}

func (m *MockAPI) IssueProjectItems(ctx context.Context, issueID string) ([]domain.ProjectItemRef, error) {
	args := m.Called(ctx, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectItemRef), args.Error(1)
}

func (m *MockAPI) UpdateItemField(ctx context.Context, update domain.FieldUpdateRequest) (string, error) {
	args := m.Called(ctx, update)
	return args.String(0), args.Error(1)
}
