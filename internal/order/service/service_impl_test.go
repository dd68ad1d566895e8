package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/mensa/internal/catalog/repository"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	orderrepo "github.com/smallbiznis/mensa/internal/order/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrderService(t *testing.T) (orderdomain.Service, orderdomain.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.FoodItem{},
		&orderdomain.Order{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Catalog: catalogrepo.Provide(db),
	})
	return svc, orderrepo.Provide(db), db
}

func seedFoodItem(t *testing.T, db *gorm.DB, id snowflake.ID, numOrders int64) {
	t.Helper()
	require.NoError(t, db.Create(&catalogdomain.FoodItem{
		ID:        id,
		CanteenID: 1,
		Title:     "item-" + id.String(),
		Price:     3.50,
		NumOrders: numOrders,
	}).Error)
}

func TestPlaceOrderBumpsPopularity(t *testing.T) {
	svc, _, db := setupOrderService(t)
	seedFoodItem(t, db, 100, 7)

	order, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{
		UserID: 42,
		FoodID: 100,
	})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotZero(t, order.ID)

	var item catalogdomain.FoodItem
	require.NoError(t, db.First(&item, "id = ?", 100).Error)
	assert.Equal(t, int64(8), item.NumOrders)

	var count int64
	require.NoError(t, db.Model(&orderdomain.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlaceOrderUnknownItem(t *testing.T) {
	svc, _, db := setupOrderService(t)

	_, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{
		UserID: 42,
		FoodID: 999,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrItemNotFound)

	var count int64
	require.NoError(t, db.Model(&orderdomain.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListAllPairsReflectsRepeatOrders(t *testing.T) {
	svc, repo, db := setupOrderService(t)
	seedFoodItem(t, db, 100, 0)
	seedFoodItem(t, db, 200, 0)

	for i := 0; i < 3; i++ {
		_, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{UserID: 1, FoodID: 100})
		require.NoError(t, err)
	}
	_, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{UserID: 1, FoodID: 200})
	require.NoError(t, err)

	pairs, err := repo.ListAllPairs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 4)

	counts := map[orderdomain.Pair]int{}
	for _, p := range pairs {
		counts[p]++
	}
	assert.Equal(t, 3, counts[orderdomain.Pair{UserID: 1, FoodID: 100}])
	assert.Equal(t, 1, counts[orderdomain.Pair{UserID: 1, FoodID: 200}])
}

func TestListItemIDsByUserDistinct(t *testing.T) {
	svc, repo, db := setupOrderService(t)
	seedFoodItem(t, db, 100, 0)
	seedFoodItem(t, db, 200, 0)

	for i := 0; i < 2; i++ {
		_, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{UserID: 1, FoodID: 100})
		require.NoError(t, err)
	}
	_, err := svc.Place(context.Background(), orderdomain.PlaceOrderRequest{UserID: 2, FoodID: 200})
	require.NoError(t, err)

	ids, err := repo.ListItemIDsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{100}, ids)

	ids, err = repo.ListItemIDsByUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
