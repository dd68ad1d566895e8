package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/mensa/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Chain{},
		&domain.Canteen{},
		&domain.FoodItem{},
		&domain.SpecialItem{},
	))

	return Provide(db), db
}

func seedItem(t *testing.T, db *gorm.DB, id, canteenID snowflake.ID, title string, numOrders int64) domain.FoodItem {
	t.Helper()
	item := domain.FoodItem{
		ID:        id,
		CanteenID: canteenID,
		Title:     title,
		Price:     4.20,
		NumOrders: numOrders,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestGetItemByID(t *testing.T) {
	repo, db := setupRepo(t)
	seedItem(t, db, 100, 1, "Falafel Wrap", 10)

	item, err := repo.GetItemByID(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Falafel Wrap", item.Title)

	missing, err := repo.GetItemByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListByPopularity(t *testing.T) {
	repo, db := setupRepo(t)
	seedItem(t, db, 101, 1, "Burger", 140)
	seedItem(t, db, 102, 1, "Pizza", 120)
	seedItem(t, db, 103, 1, "Soup", 15)

	items, err := repo.ListByPopularity(context.Background(), nil, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Title)
	assert.Equal(t, "Pizza", items[1].Title)

	items, err = repo.ListByPopularity(context.Background(), []snowflake.ID{101}, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Pizza", items[0].Title)
	assert.Equal(t, "Soup", items[1].Title)

	items, err = repo.ListByPopularity(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListSpecialItems(t *testing.T) {
	repo, db := setupRepo(t)
	special := seedItem(t, db, 101, 1, "Pumpkin Soup", 15)
	flaggedOff := seedItem(t, db, 102, 1, "Burger", 140)
	seedItem(t, db, 103, 2, "Ramen", 45)
	otherCanteen := seedItem(t, db, 104, 2, "Curry", 95)

	require.NoError(t, db.Create(&domain.SpecialItem{ID: 1, FoodID: special.ID, IsSpecial: true}).Error)
	require.NoError(t, db.Create(&domain.SpecialItem{ID: 2, FoodID: flaggedOff.ID, IsSpecial: false}).Error)
	require.NoError(t, db.Create(&domain.SpecialItem{ID: 3, FoodID: otherCanteen.ID, IsSpecial: true}).Error)

	items, err := repo.ListSpecialItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pumpkin Soup", items[0].Title)
}

func TestGetCanteen(t *testing.T) {
	repo, db := setupRepo(t)
	chainID := snowflake.ID(900)
	require.NoError(t, db.Create(&domain.Chain{ID: chainID, Name: "Campus Eats"}).Error)
	require.NoError(t, db.Create(&domain.Canteen{ID: 500, Name: "North Mensa", ChainID: &chainID}).Error)

	canteen, err := repo.GetCanteen(context.Background(), 500)
	require.NoError(t, err)
	require.NotNil(t, canteen)
	require.NotNil(t, canteen.ChainID)
	assert.Equal(t, chainID, *canteen.ChainID)

	missing, err := repo.GetCanteen(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
