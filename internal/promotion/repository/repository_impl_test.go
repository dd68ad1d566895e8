package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/mensa/internal/promotion/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Promotion{}))

	return Provide(db), db
}

func seedPromotion(t *testing.T, db *gorm.DB, p domain.Promotion) {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
}

func TestListActiveLocal(t *testing.T) {
	repo, db := setupRepo(t)
	canteenID := snowflake.ID(500)
	otherCanteen := snowflake.ID(501)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seedPromotion(t, db, domain.Promotion{
		ID: 1, Code: "ACTIVE", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today.AddDate(0, 0, -2), ValidTo: today.AddDate(0, 0, 2),
	})
	seedPromotion(t, db, domain.Promotion{
		ID: 2, Code: "EXPIRED", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today.AddDate(0, 0, -10), ValidTo: today.AddDate(0, 0, -1),
	})
	seedPromotion(t, db, domain.Promotion{
		ID: 3, Code: "FUTURE", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today.AddDate(0, 0, 1), ValidTo: today.AddDate(0, 0, 5),
	})
	seedPromotion(t, db, domain.Promotion{
		ID: 4, Code: "ELSEWHERE", Level: domain.LevelLocal, CanteenID: &otherCanteen,
		ValidFrom: today.AddDate(0, 0, -2), ValidTo: today.AddDate(0, 0, 2),
	})

	promos, err := repo.ListActiveLocal(context.Background(), canteenID, today)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, "ACTIVE", promos[0].Code)
}

func TestListActiveLocalInclusiveBounds(t *testing.T) {
	repo, db := setupRepo(t)
	canteenID := snowflake.ID(500)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seedPromotion(t, db, domain.Promotion{
		ID: 1, Code: "STARTS_TODAY", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today, ValidTo: today.AddDate(0, 0, 5),
	})
	seedPromotion(t, db, domain.Promotion{
		ID: 2, Code: "ENDS_TODAY", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today.AddDate(0, 0, -5), ValidTo: today,
	})

	promos, err := repo.ListActiveLocal(context.Background(), canteenID, today)
	require.NoError(t, err)
	assert.Len(t, promos, 2)
}

func TestListActiveNational(t *testing.T) {
	repo, db := setupRepo(t)
	chainID := snowflake.ID(900)
	canteenID := snowflake.ID(500)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seedPromotion(t, db, domain.Promotion{
		ID: 1, Code: "CHAINWIDE", Level: domain.LevelNational, ChainID: &chainID,
		ValidFrom: today.AddDate(0, 0, -1), ValidTo: today.AddDate(0, 0, 1),
	})
	// Local promotions never match the national query.
	seedPromotion(t, db, domain.Promotion{
		ID: 2, Code: "LOCAL", Level: domain.LevelLocal, CanteenID: &canteenID,
		ValidFrom: today.AddDate(0, 0, -1), ValidTo: today.AddDate(0, 0, 1),
	})

	promos, err := repo.ListActiveNational(context.Background(), chainID, today)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, "CHAINWIDE", promos[0].Code)
}
