package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

func TestListIsSortedByName(t *testing.T) {
	src := NewMemorySource(zap.NewNop().Sugar())

	recipes := src.List(context.Background())
	require.NotEmpty(t, recipes)
	for i := 1; i < len(recipes); i++ {
		assert.LessOrEqual(t, recipes[i-1].Name, recipes[i].Name)
	}
}

func TestGetUnknownID(t *testing.T) {
	src := NewMemorySource(zap.NewNop().Sugar())

	_, err := src.Get(context.Background(), "no-such-recipe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByPartialName(t *testing.T) {
	src := NewMemorySource(zap.NewNop().Sugar())

	r, err := src.Find(context.Background(), "alfredo")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Alfredo", r.Name)

	_, err = src.Find(context.Background(), "sushi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetReturnsACopy(t *testing.T) {
	src := NewMemorySource(zap.NewNop().Sugar())

	r, err := src.Get(context.Background(), "overnight-oats")
	require.NoError(t, err)
	r.Name = "mutated"

	again, err := src.Get(context.Background(), "overnight-oats")
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats", again.Name)
}
