package als

import (
	"testing"

	"github.com/smallbiznis/mensa/internal/recommend/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two taste clusters: users 1-2 order items 10/20, users 3-4 order
// items 30/40. User 1 also ordered item 30 once as cross-signal.
func clusteredPairs() []matrix.Pair {
	pairs := []matrix.Pair{}
	add := func(user, item int64, times int) {
		for i := 0; i < times; i++ {
			pairs = append(pairs, matrix.Pair{UserID: user, ItemID: item})
		}
	}
	add(1, 10, 5)
	add(1, 20, 3)
	add(2, 10, 4)
	add(2, 20, 4)
	add(3, 30, 5)
	add(3, 40, 2)
	add(4, 30, 3)
	add(4, 40, 4)
	add(1, 30, 1)
	return pairs
}

func TestTrainEmptyMatrix(t *testing.T) {
	x := matrix.Build(nil)
	_, err := Train(x.Counts)
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestTrainDimensions(t *testing.T) {
	x := matrix.Build(clusteredPairs())
	model, err := Train(x.Counts)
	require.NoError(t, err)

	assert.Equal(t, 4, model.Users())
	assert.Equal(t, 4, model.Items())
}

func TestRecommendUnknownUser(t *testing.T) {
	x := matrix.Build(clusteredPairs())
	model, err := Train(x.Counts)
	require.NoError(t, err)

	_, err = model.Recommend(-1, 3, nil)
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = model.Recommend(model.Users(), 3, nil)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestRecommendRanksInClusterItemsHigher(t *testing.T) {
	x := matrix.Build(clusteredPairs())
	model, err := Train(x.Counts)
	require.NoError(t, err)

	// User 2 (row 1) consumed items 10 and 20 only. Its top-scored
	// candidates among all items should be the in-cluster pair.
	scored, err := model.Recommend(1, 0, nil)
	require.NoError(t, err)
	require.Len(t, scored, 4)

	top := map[int64]struct{}{}
	for _, s := range scored[:2] {
		id, ok := x.ItemID(s.Item)
		require.True(t, ok)
		top[id] = struct{}{}
	}
	assert.Contains(t, top, int64(10))
	assert.Contains(t, top, int64(20))
}

func TestRecommendExcludesAndTruncates(t *testing.T) {
	x := matrix.Build(clusteredPairs())
	model, err := Train(x.Counts)
	require.NoError(t, err)

	scored, err := model.Recommend(0, 2, map[int]struct{}{0: {}})
	require.NoError(t, err)
	assert.Len(t, scored, 2)
	for _, s := range scored {
		assert.NotEqual(t, 0, s.Item)
	}
}

func TestTrainDeterministic(t *testing.T) {
	x := matrix.Build(clusteredPairs())

	first, err := Train(x.Counts)
	require.NoError(t, err)
	second, err := Train(x.Counts)
	require.NoError(t, err)

	a, err := first.Recommend(0, 0, nil)
	require.NoError(t, err)
	b, err := second.Recommend(0, 0, nil)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Item, b[i].Item)
		assert.InDelta(t, a[i].Score, b[i].Score, 1e-9)
	}
}

func TestRecommendOrderStable(t *testing.T) {
	x := matrix.Build(clusteredPairs())
	model, err := Train(x.Counts)
	require.NoError(t, err)

	scored, err := model.Recommend(2, 0, nil)
	require.NoError(t, err)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}
