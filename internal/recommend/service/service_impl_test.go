package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/cache"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderRepoStub struct {
	pairs    []orderdomain.Pair
	pairsErr error
	byUser   map[snowflake.ID][]snowflake.ID
}

func (r *orderRepoStub) Insert(ctx context.Context, order *orderdomain.Order) error {
	return nil
}

func (r *orderRepoStub) ListAllPairs(ctx context.Context) ([]orderdomain.Pair, error) {
	if r.pairsErr != nil {
		return nil, r.pairsErr
	}
	return r.pairs, nil
}

func (r *orderRepoStub) ListItemIDsByUser(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	return r.byUser[userID], nil
}

type catalogRepoStub struct {
	items map[snowflake.ID]*catalogdomain.FoodItem
	// byPopularity is pre-sorted descending by order count.
	byPopularity []catalogdomain.FoodItem
}

func (r *catalogRepoStub) GetItemByID(ctx context.Context, id snowflake.ID) (*catalogdomain.FoodItem, error) {
	return r.items[id], nil
}

func (r *catalogRepoStub) ListByPopularity(ctx context.Context, excluded []snowflake.ID, limit int) ([]catalogdomain.FoodItem, error) {
	skip := map[snowflake.ID]struct{}{}
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	out := []catalogdomain.FoodItem{}
	for _, item := range r.byPopularity {
		if _, ok := skip[item.ID]; ok {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *catalogRepoStub) ListSpecialItems(ctx context.Context, canteenID snowflake.ID) ([]catalogdomain.FoodItem, error) {
	return nil, nil
}

func (r *catalogRepoStub) GetCanteen(ctx context.Context, id snowflake.ID) (*catalogdomain.Canteen, error) {
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestCatalog(ids ...snowflake.ID) *catalogRepoStub {
	stub := &catalogRepoStub{items: map[snowflake.ID]*catalogdomain.FoodItem{}}
	for i, id := range ids {
		item := &catalogdomain.FoodItem{
			ID:        id,
			Title:     "item-" + id.String(),
			Price:     float64(i+1) * 1.5,
			NumOrders: int64(100 - i*10),
		}
		stub.items[id] = item
		stub.byPopularity = append(stub.byPopularity, *item)
	}
	return stub
}

func newTestService(orders *orderRepoStub, catalog *catalogRepoStub) *Service {
	svc := NewService(ServiceParam{
		Log:     zap.NewNop(),
		Orders:  orders,
		Catalog: catalog,
		Items:   cache.NewItemCache(),
		Clock:   fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	})
	return svc.(*Service)
}

func repeat(user, food snowflake.ID, times int) []orderdomain.Pair {
	pairs := make([]orderdomain.Pair, times)
	for i := range pairs {
		pairs[i] = orderdomain.Pair{UserID: user, FoodID: food}
	}
	return pairs
}

func TestStateStartsUntrained(t *testing.T) {
	svc := newTestService(&orderRepoStub{}, newTestCatalog())
	assert.Equal(t, recdomain.StateUntrained, svc.State().Kind)
}

func TestTrainEmptyHistoryStaysUntrained(t *testing.T) {
	svc := newTestService(&orderRepoStub{}, newTestCatalog())

	err := svc.Train(context.Background())
	require.NoError(t, err)

	state := svc.State()
	assert.Equal(t, recdomain.StateUntrained, state.Kind)
	assert.Equal(t, "empty_order_history", state.Reason)
}

func TestTrainStoreFailure(t *testing.T) {
	orders := &orderRepoStub{pairsErr: errors.New("connection refused")}
	svc := newTestService(orders, newTestCatalog())

	err := svc.Train(context.Background())
	require.Error(t, err)
	assert.Equal(t, recdomain.StateFailed, svc.State().Kind)
}

func TestRecommendFallbackWithoutModel(t *testing.T) {
	itemA, itemB, itemC := snowflake.ID(101), snowflake.ID(102), snowflake.ID(103)
	catalog := newTestCatalog(itemA, itemB, itemC)
	orders := &orderRepoStub{
		byUser: map[snowflake.ID][]snowflake.ID{7: {itemA}},
	}
	svc := newTestService(orders, catalog)

	entries, err := svc.Recommend(context.Background(), 7, 5)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "item-"+itemB.String(), entries[0].Title)
	assert.Equal(t, "item-"+itemC.String(), entries[1].Title)
	for _, e := range entries {
		assert.Zero(t, e.Score)
	}
}

func TestRecommendUnknownUserWithModel(t *testing.T) {
	itemA, itemB := snowflake.ID(101), snowflake.ID(102)
	catalog := newTestCatalog(itemA, itemB)
	orders := &orderRepoStub{
		pairs: append(repeat(1, itemA, 3), repeat(2, itemB, 2)...),
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))
	require.Equal(t, recdomain.StateTrained, svc.State().Kind)

	// User 99 never ordered; with a trained model this is an empty
	// personalized result, not a fallback.
	entries, err := svc.Recommend(context.Background(), 99, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecommendExcludesOrderedItems(t *testing.T) {
	itemA, itemB, itemC := snowflake.ID(101), snowflake.ID(102), snowflake.ID(103)
	catalog := newTestCatalog(itemA, itemB, itemC)

	pairs := repeat(1, itemA, 4)
	pairs = append(pairs, repeat(1, itemB, 2)...)
	pairs = append(pairs, repeat(2, itemB, 3)...)
	pairs = append(pairs, repeat(2, itemC, 3)...)
	orders := &orderRepoStub{
		pairs: pairs,
		byUser: map[snowflake.ID][]snowflake.ID{
			1: {itemA, itemB},
			2: {itemB, itemC},
		},
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))

	entries, err := svc.Recommend(context.Background(), 1, 5)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, e := range entries {
		seen[e.Title]++
		assert.NotEqual(t, "item-"+itemA.String(), e.Title)
		assert.NotEqual(t, "item-"+itemB.String(), e.Title)
	}
	for title, count := range seen {
		assert.Equal(t, 1, count, "duplicate entry %s", title)
	}
	assert.LessOrEqual(t, len(entries), 5)
}

func TestRecommendTopUpFromFallback(t *testing.T) {
	// Model knows two items; a third exists only in the catalog and can
	// only arrive via the popularity top-up.
	itemA, itemB, itemC := snowflake.ID(101), snowflake.ID(102), snowflake.ID(103)
	catalog := newTestCatalog(itemA, itemB, itemC)

	pairs := repeat(1, itemA, 3)
	pairs = append(pairs, repeat(2, itemB, 3)...)
	orders := &orderRepoStub{
		pairs: pairs,
		byUser: map[snowflake.ID][]snowflake.ID{
			1: {itemA},
		},
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))

	entries, err := svc.Recommend(context.Background(), 1, 3)
	require.NoError(t, err)

	titles := map[string]struct{}{}
	for _, e := range entries {
		titles[e.Title] = struct{}{}
	}
	assert.Contains(t, titles, "item-"+itemC.String())
	assert.NotContains(t, titles, "item-"+itemA.String())
}

func TestGetPersonalisedMatchesRecommend(t *testing.T) {
	itemA, itemB, itemC := snowflake.ID(101), snowflake.ID(102), snowflake.ID(103)
	catalog := newTestCatalog(itemA, itemB, itemC)

	pairs := repeat(1, itemA, 2)
	pairs = append(pairs, repeat(2, itemB, 2)...)
	pairs = append(pairs, repeat(2, itemC, 1)...)
	orders := &orderRepoStub{
		pairs:  pairs,
		byUser: map[snowflake.ID][]snowflake.ID{1: {itemA}},
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))

	a, err := svc.Recommend(context.Background(), 1, 3)
	require.NoError(t, err)
	b, err := svc.GetPersonalised(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRecommendIdempotent(t *testing.T) {
	itemA, itemB, itemC := snowflake.ID(101), snowflake.ID(102), snowflake.ID(103)
	catalog := newTestCatalog(itemA, itemB, itemC)

	pairs := repeat(1, itemA, 2)
	pairs = append(pairs, repeat(2, itemB, 4)...)
	pairs = append(pairs, repeat(3, itemC, 1)...)
	orders := &orderRepoStub{
		pairs:  pairs,
		byUser: map[snowflake.ID][]snowflake.ID{1: {itemA}},
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))

	first, err := svc.Recommend(context.Background(), 1, 3)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommendNonPositiveCount(t *testing.T) {
	svc := newTestService(&orderRepoStub{}, newTestCatalog())

	entries, err := svc.Recommend(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrainPublishesState(t *testing.T) {
	itemA, itemB := snowflake.ID(101), snowflake.ID(102)
	catalog := newTestCatalog(itemA, itemB)
	orders := &orderRepoStub{
		pairs: append(repeat(1, itemA, 2), repeat(2, itemB, 2)...),
	}
	svc := newTestService(orders, catalog)
	require.NoError(t, svc.Train(context.Background()))

	state := svc.State()
	assert.Equal(t, recdomain.StateTrained, state.Kind)
	assert.Equal(t, 2, state.Users)
	assert.Equal(t, 2, state.Items)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), state.TrainedAt)
}
