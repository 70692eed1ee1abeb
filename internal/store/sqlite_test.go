package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triadlabs/triad/pkg/arena/compare"
)

func testAggregate(t *testing.T, prompt string) *compare.Aggregate {
	t.Helper()
	p, err := compare.NewPrompt(prompt)
	require.NoError(t, err)

	model, err := compare.ParseModelID("providerA/modelX")
	require.NoError(t, err)

	return compare.NewAggregate(p, []compare.Outcome{
		compare.Success(model, "providerA", "pong", 120, 7),
		compare.TimedOut(model, "providerA", 30000),
	})
}

func TestSQLiteSaveAndGet(t *testing.T) {
	s, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	agg := testAggregate(t, "Ping")

	saved, err := s.Save(ctx, agg)
	require.NoError(t, err)
	assert.Equal(t, agg.ID, saved.ID)

	loaded, err := s.Get(ctx, agg.ID)
	require.NoError(t, err)
	assert.Equal(t, agg.ID, loaded.ID)
	assert.Equal(t, "Ping", loaded.Prompt)
	require.Len(t, loaded.Outcomes, 2)
	assert.Equal(t, compare.StatusSuccess, loaded.Outcomes[0].Status)
	assert.Equal(t, int64(120), loaded.Outcomes[0].LatencyMs)
	assert.Equal(t, compare.StatusTimeout, loaded.Outcomes[1].Status)
	assert.Equal(t, 1, loaded.SuccessfulModels())
}

func TestSQLiteList(t *testing.T) {
	s, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, prompt := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, testAggregate(t, prompt))
		require.NoError(t, err)
	}

	aggregates, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, aggregates, 2)
}

func TestSQLiteDuplicateSaveFails(t *testing.T) {
	s, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	agg := testAggregate(t, "Ping")

	_, err = s.Save(ctx, agg)
	require.NoError(t, err)

	_, err = s.Save(ctx, agg)
	assert.Error(t, err, "aggregates are persisted exactly once")
}
