package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	"github.com/smallbiznis/mensa/internal/clock"
	"github.com/smallbiznis/mensa/internal/config"
	homefeeddomain "github.com/smallbiznis/mensa/internal/homefeed/domain"
	obsmetrics "github.com/smallbiznis/mensa/internal/observability/metrics"
	profiledomain "github.com/smallbiznis/mensa/internal/profile/domain"
	promotiondomain "github.com/smallbiznis/mensa/internal/promotion/domain"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	Recommend  recdomain.Service
	Profiles   profiledomain.Repository
	Catalog    catalogdomain.Repository
	Promotions promotiondomain.Repository
	Clock      clock.Clock
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	recommend  recdomain.Service
	profiles   profiledomain.Repository
	catalog    catalogdomain.Repository
	promotions promotiondomain.Repository
	clock      clock.Clock
	metrics    *obsmetrics.Metrics

	defaultCount int
}

func NewService(p ServiceParam) homefeeddomain.Service {
	count := p.Cfg.Recommend.DefaultCount
	if count <= 0 {
		count = 5
	}
	return &Service{
		log:          p.Log.Named("homefeed.service"),
		recommend:    p.Recommend,
		profiles:     p.Profiles,
		catalog:      p.Catalog,
		promotions:   p.Promotions,
		clock:        p.Clock,
		metrics:      p.Metrics,
		defaultCount: count,
	}
}

// BuildContext performs no caching; each call re-executes all three
// lookups so the payload always reflects current state.
func (s *Service) BuildContext(ctx context.Context, userID snowflake.ID) (*homefeeddomain.Context, error) {
	s.metrics.RecordContextRequest(ctx)

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, profiledomain.ErrProfileNotFound
	}

	recommendations, err := s.recommend.GetPersonalised(ctx, userID, s.defaultCount)
	if err != nil {
		return nil, err
	}

	specials, err := s.listSpecials(ctx, profile)
	if err != nil {
		return nil, err
	}

	promotions, err := s.listPromotions(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &homefeeddomain.Context{
		Recommendations: recommendations,
		Specials:        specials,
		Promotions:      promotions,
	}, nil
}

func (s *Service) listSpecials(ctx context.Context, profile *profiledomain.UserProfile) ([]homefeeddomain.SpecialOffer, error) {
	offers := []homefeeddomain.SpecialOffer{}
	if profile.HomeCanteenID == nil {
		return offers, nil
	}

	items, err := s.catalog.ListSpecialItems(ctx, *profile.HomeCanteenID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		offers = append(offers, homefeeddomain.SpecialOffer{
			Title: item.Title,
			Price: item.Price,
		})
	}
	return offers, nil
}

// listPromotions runs the local-scope and national-scope filters as two
// independent queries ORed together. A promotion carries exactly one
// scope, so an entry can never qualify on both.
func (s *Service) listPromotions(ctx context.Context, profile *profiledomain.UserProfile) ([]homefeeddomain.PromotionOffer, error) {
	offers := []homefeeddomain.PromotionOffer{}
	if profile.HomeCanteenID == nil {
		return offers, nil
	}

	today := truncateToDate(s.clock.Now())

	local, err := s.promotions.ListActiveLocal(ctx, *profile.HomeCanteenID, today)
	if err != nil {
		return nil, err
	}

	var national []promotiondomain.Promotion
	canteen, err := s.catalog.GetCanteen(ctx, *profile.HomeCanteenID)
	if err != nil {
		return nil, err
	}
	if canteen != nil && canteen.ChainID != nil {
		national, err = s.promotions.ListActiveNational(ctx, *canteen.ChainID, today)
		if err != nil {
			return nil, err
		}
	}

	for _, promo := range append(local, national...) {
		offers = append(offers, homefeeddomain.PromotionOffer{
			Code:            promo.Code,
			DiscountPercent: promo.DiscountPercent,
			Level:           promo.Level,
		})
	}
	return offers, nil
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
