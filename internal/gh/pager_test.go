package gh

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endlessPages simulates a listing that always reports another page.
func endlessPages(cursors *[]string) PageFunc {
	return func(ctx context.Context, cursor string) (domain.PullRequestPage, error) {
		*cursors = append(*cursors, cursor)
		return domain.PullRequestPage{
			EndCursor:   fmt.Sprintf("c%d", len(*cursors)),
			HasNextPage: true,
		}, nil
	}
}

func TestPager_StopsAtMaxPages(t *testing.T) {
	var cursors []string
	pager := NewPager(endlessPages(&cursors), 3)

	pages := 0
	for {
		_, ok, err := pager.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		pages++
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, 3, pager.Pages())
	assert.Equal(t, []string{"", "c1", "c2"}, cursors)
}

func TestPager_DefaultCap(t *testing.T) {
	var cursors []string
	pager := NewPager(endlessPages(&cursors), 0)

	for range pager.All(context.Background()) {
	}

	assert.Len(t, cursors, DefaultMaxPages)
}

func TestPager_StopsWhenNoNextPage(t *testing.T) {
	calls := 0
	pager := NewPager(func(ctx context.Context, cursor string) (domain.PullRequestPage, error) {
		calls++
		return domain.PullRequestPage{EndCursor: "end", HasNextPage: false}, nil
	}, 10)

	_, ok, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = pager.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestPager_AllRestarts(t *testing.T) {
	var cursors []string
	pager := NewPager(endlessPages(&cursors), 2)

	for range pager.All(context.Background()) {
	}
	for range pager.All(context.Background()) {
	}

	assert.Equal(t, []string{"", "c1", "", "c3"}, cursors)
}

func TestPager_AllEarlyBreak(t *testing.T) {
	var cursors []string
	pager := NewPager(endlessPages(&cursors), 5)

	for range pager.All(context.Background()) {
		break
	}

	assert.Len(t, cursors, 1)
}

func TestPager_ErrorEndsSequence(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	pager := NewPager(func(ctx context.Context, cursor string) (domain.PullRequestPage, error) {
		calls++
		if calls == 2 {
			return domain.PullRequestPage{}, boom
		}
		return domain.PullRequestPage{EndCursor: "c", HasNextPage: true}, nil
	}, 5)

	var errs []error
	pages := 0
	for _, err := range pager.All(context.Background()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pages++
	}

	assert.Equal(t, 1, pages)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, 2, calls)
}
