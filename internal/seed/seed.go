// Package seed bootstraps demo data for local development. Seeding is
// idempotent: each record is looked up before insert so restarting the
// service against the same database never duplicates rows.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	profiledomain "github.com/smallbiznis/mensa/internal/profile/domain"
	promotiondomain "github.com/smallbiznis/mensa/internal/promotion/domain"
	"gorm.io/gorm"
)

const (
	demoChainName    = "Campus Eats"
	demoCanteenNorth = "North Mensa"
	demoCanteenSouth = "South Mensa"
)

type demoItem struct {
	Title     string
	Price     float64
	Category  string
	NumOrders int64
	IsSpecial bool
}

var demoMenu = map[string][]demoItem{
	demoCanteenNorth: {
		{Title: "Margherita Pizza", Price: 4.50, Category: "Italian", NumOrders: 120},
		{Title: "Chicken Curry", Price: 5.20, Category: "Asian", NumOrders: 95},
		{Title: "Caesar Salad", Price: 3.80, Category: "Salads", NumOrders: 60},
		{Title: "Pumpkin Soup", Price: 2.90, Category: "Soups", NumOrders: 15, IsSpecial: true},
	},
	demoCanteenSouth: {
		{Title: "Beef Burger", Price: 5.90, Category: "Grill", NumOrders: 140},
		{Title: "Falafel Wrap", Price: 4.20, Category: "Vegetarian", NumOrders: 80},
		{Title: "Ramen Bowl", Price: 6.10, Category: "Asian", NumOrders: 45, IsSpecial: true},
	},
}

// EnsureDemoData seeds a demo chain with two canteens, a small menu,
// specials, promotions, three user profiles and enough order history to
// give the recommender a non-empty training matrix.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := ensureChainTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var canteens []catalogdomain.Canteen
		items := map[string][]catalogdomain.FoodItem{}
		for _, name := range []string{demoCanteenNorth, demoCanteenSouth} {
			canteen, err := ensureCanteenTx(ctx, tx, node, chain.ID, name)
			if err != nil {
				return err
			}
			canteens = append(canteens, canteen)

			for _, d := range demoMenu[name] {
				item, err := ensureFoodItemTx(ctx, tx, node, canteen.ID, d)
				if err != nil {
					return err
				}
				items[name] = append(items[name], item)
			}
		}

		if err := ensurePromotionsTx(ctx, tx, node, chain.ID, canteens[0].ID); err != nil {
			return err
		}

		profiles, err := ensureProfilesTx(ctx, tx, node, canteens)
		if err != nil {
			return err
		}

		return ensureOrderHistoryTx(ctx, tx, node, profiles, items)
	})
}

func ensureChainTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (catalogdomain.Chain, error) {
	var chain catalogdomain.Chain
	err := tx.WithContext(ctx).Where("name = ?", demoChainName).First(&chain).Error
	if err == nil {
		return chain, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return chain, err
	}
	chain = catalogdomain.Chain{
		ID:        node.Generate(),
		Name:      demoChainName,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(&chain).Error; err != nil {
		return chain, err
	}
	return chain, nil
}

func ensureCanteenTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, chainID snowflake.ID, name string) (catalogdomain.Canteen, error) {
	var canteen catalogdomain.Canteen
	err := tx.WithContext(ctx).Where("name = ?", name).First(&canteen).Error
	if err == nil {
		return canteen, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return canteen, err
	}
	canteen = catalogdomain.Canteen{
		ID:        node.Generate(),
		Name:      name,
		ChainID:   &chainID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(&canteen).Error; err != nil {
		return canteen, err
	}
	return canteen, nil
}

func ensureFoodItemTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, canteenID snowflake.ID, d demoItem) (catalogdomain.FoodItem, error) {
	var item catalogdomain.FoodItem
	err := tx.WithContext(ctx).
		Where("canteen_id = ? AND title = ?", canteenID, d.Title).
		First(&item).Error
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return item, err
	}

	now := time.Now().UTC()
	item = catalogdomain.FoodItem{
		ID:        node.Generate(),
		CanteenID: canteenID,
		Title:     d.Title,
		Price:     d.Price,
		Category:  d.Category,
		NumOrders: d.NumOrders,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
		return item, err
	}

	if d.IsSpecial {
		special := catalogdomain.SpecialItem{
			ID:        node.Generate(),
			FoodID:    item.ID,
			IsSpecial: true,
			DateAdded: now,
		}
		if err := tx.WithContext(ctx).Create(&special).Error; err != nil {
			return item, err
		}
	}
	return item, nil
}

func ensurePromotionsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, chainID, canteenID snowflake.ID) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	promos := []promotiondomain.Promotion{
		{
			Code:            "NORTH10",
			DiscountPercent: 10,
			CanteenID:       &canteenID,
			Level:           promotiondomain.LevelLocal,
			ValidFrom:       today.AddDate(0, 0, -7),
			ValidTo:         today.AddDate(0, 0, 7),
		},
		{
			Code:            "CAMPUS5",
			DiscountPercent: 5,
			ChainID:         &chainID,
			Level:           promotiondomain.LevelNational,
			ValidFrom:       today.AddDate(0, 0, -30),
			ValidTo:         today.AddDate(0, 0, 30),
		},
	}

	for _, p := range promos {
		var existing promotiondomain.Promotion
		err := tx.WithContext(ctx).Where("code = ?", p.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p.ID = node.Generate()
		p.CreatedAt = time.Now().UTC()
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureProfilesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, canteens []catalogdomain.Canteen) ([]profiledomain.UserProfile, error) {
	userIDs := []snowflake.ID{1001, 1002, 1003}

	var profiles []profiledomain.UserProfile
	for i, userID := range userIDs {
		var profile profiledomain.UserProfile
		err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			profiles = append(profiles, profile)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		home := canteens[i%len(canteens)].ID
		profile = profiledomain.UserProfile{
			ID:            node.Generate(),
			UserID:        userID,
			HomeCanteenID: &home,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func ensureOrderHistoryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, profiles []profiledomain.UserProfile, items map[string][]catalogdomain.FoodItem) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&orderdomain.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	north := items[demoCanteenNorth]
	south := items[demoCanteenSouth]
	if len(profiles) < 3 || len(north) < 3 || len(south) < 2 {
		return nil
	}

	// Give each user overlapping but distinct tastes so the factor model
	// has structure to learn.
	history := []struct {
		User  snowflake.ID
		Item  snowflake.ID
		Times int
	}{
		{profiles[0].UserID, north[0].ID, 4},
		{profiles[0].UserID, north[1].ID, 2},
		{profiles[0].UserID, south[0].ID, 1},

		{profiles[1].UserID, north[1].ID, 3},
		{profiles[1].UserID, north[2].ID, 2},
		{profiles[1].UserID, south[1].ID, 2},

		{profiles[2].UserID, south[0].ID, 5},
		{profiles[2].UserID, south[1].ID, 1},
		{profiles[2].UserID, north[0].ID, 1},
	}

	now := time.Now().UTC()
	for _, h := range history {
		for i := 0; i < h.Times; i++ {
			order := orderdomain.Order{
				ID:        node.Generate(),
				UserID:    h.User,
				FoodID:    h.Item,
				CreatedAt: now.AddDate(0, 0, -i),
			}
			if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
