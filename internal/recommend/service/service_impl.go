package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/cache"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	"github.com/smallbiznis/mensa/internal/clock"
	obsmetrics "github.com/smallbiznis/mensa/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	"github.com/smallbiznis/mensa/internal/recommend/als"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
	"github.com/smallbiznis/mensa/internal/recommend/matrix"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// overFetchFactor pads the model request so post-filtering of
	// already-ordered items still leaves enough candidates.
	overFetchFactor = 2
)

// snapshot binds the trained model to the index mappings it was trained
// with. The two are published as one unit so they can never drift apart
// across a retrain.
type snapshot struct {
	state        recdomain.State
	model        *als.Model
	interactions *matrix.Interactions
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Orders  orderdomain.Repository
	Catalog catalogdomain.Repository
	Items   cache.ItemCache
	Clock   clock.Clock
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	orders  orderdomain.Repository
	catalog catalogdomain.Repository
	items   cache.ItemCache
	clock   clock.Clock
	metrics *obsmetrics.Metrics

	current atomic.Pointer[snapshot]
}

func NewService(p ServiceParam) recdomain.Service {
	s := &Service{
		log:     p.Log.Named("recommend.service"),
		orders:  p.Orders,
		catalog: p.Catalog,
		items:   p.Items,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
	s.current.Store(&snapshot{state: recdomain.State{Kind: recdomain.StateUntrained}})
	return s
}

// Train reads the full order history, rebuilds the interaction matrix
// and retrains the factor model. The new snapshot replaces the old one
// atomically; in-flight requests keep reading the old one. A store
// failure or a training failure degrades to a fallback-only state and
// never propagates to recommendation callers.
func (s *Service) Train(ctx context.Context) error {
	pairs, err := s.orders.ListAllPairs(ctx)
	if err != nil {
		s.publishFailure("order history unavailable: " + err.Error())
		s.metrics.RecordModelTraining(ctx, "data_unavailable")
		s.log.Error("training aborted, order history unavailable", zap.Error(err))
		return err
	}

	interactions := matrix.Build(toMatrixPairs(pairs))
	if len(interactions.Users) == 0 || len(interactions.Items) == 0 {
		s.current.Store(&snapshot{state: recdomain.State{
			Kind:   recdomain.StateUntrained,
			Reason: "empty_order_history",
		}})
		s.metrics.RecordModelTraining(ctx, "empty_history")
		s.log.Info("training skipped, no order history")
		return nil
	}

	model, err := als.Train(interactions.Counts)
	if err != nil {
		s.publishFailure(err.Error())
		s.metrics.RecordModelTraining(ctx, "failed")
		s.log.Error("model training failed", zap.Error(err))
		return err
	}

	s.current.Store(&snapshot{
		state: recdomain.State{
			Kind:      recdomain.StateTrained,
			TrainedAt: s.clock.Now(),
			Users:     model.Users(),
			Items:     model.Items(),
		},
		model:        model,
		interactions: interactions,
	})
	s.metrics.RecordModelTraining(ctx, "trained")
	s.log.Info("model trained",
		zap.Int("users", model.Users()),
		zap.Int("items", model.Items()),
		zap.Int("interactions", interactions.Counts.NNZ()),
	)
	return nil
}

func (s *Service) State() recdomain.State {
	return s.current.Load().state
}

// GetPersonalised is a pure alias for Recommend.
func (s *Service) GetPersonalised(ctx context.Context, userID snowflake.ID, n int) ([]recdomain.Entry, error) {
	return s.Recommend(ctx, userID, n)
}

func (s *Service) Recommend(ctx context.Context, userID snowflake.ID, n int) ([]recdomain.Entry, error) {
	if n <= 0 {
		return []recdomain.Entry{}, nil
	}

	orderedIDs, err := s.orders.ListItemIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ordered := make(map[snowflake.ID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		ordered[id] = struct{}{}
	}

	snap := s.current.Load()
	if snap.model == nil {
		return s.popularFallback(ctx, n, ordered)
	}

	userRow, known := snap.interactions.UserIndex(int64(userID))
	if !known {
		// A user unknown to the trained model gets no personalized
		// signal; deliberately not redirected to the fallback.
		return []recdomain.Entry{}, nil
	}

	candidates, err := snap.model.Recommend(userRow, n*overFetchFactor, nil)
	if err != nil {
		if errors.Is(err, als.ErrUnknownUser) {
			return []recdomain.Entry{}, nil
		}
		return nil, err
	}

	results := make([]recdomain.Entry, 0, n)
	added := make(map[snowflake.ID]struct{}, n)
	for _, cand := range candidates {
		itemID64, ok := snap.interactions.ItemID(cand.Item)
		if !ok {
			continue
		}
		itemID := snowflake.ID(itemID64)
		if _, skip := ordered[itemID]; skip {
			continue
		}
		if _, skip := added[itemID]; skip {
			continue
		}
		item, err := s.resolveItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		results = append(results, recdomain.Entry{
			Title: item.Title,
			Score: cand.Score,
			Price: item.Price,
		})
		added[itemID] = struct{}{}
		if len(results) >= n {
			break
		}
	}

	if len(results) < n {
		exclude := make(map[snowflake.ID]struct{}, len(ordered)+len(added))
		for id := range ordered {
			exclude[id] = struct{}{}
		}
		for id := range added {
			exclude[id] = struct{}{}
		}
		extras, err := s.popularFallback(ctx, n-len(results), exclude)
		if err != nil {
			return nil, err
		}
		results = append(results, extras...)
	}

	return results, nil
}

// popularFallback ranks catalog items by their order counter, skipping
// excluded IDs. Fallback entries carry score 0.0 to signal they are not
// model-derived.
func (s *Service) popularFallback(ctx context.Context, count int, excluded map[snowflake.ID]struct{}) ([]recdomain.Entry, error) {
	ids := make([]snowflake.ID, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}

	items, err := s.catalog.ListByPopularity(ctx, ids, count)
	if err != nil {
		return nil, err
	}

	entries := make([]recdomain.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, recdomain.Entry{
			Title: item.Title,
			Score: 0.0,
			Price: item.Price,
		})
	}
	s.metrics.RecordFallbackItems(ctx, len(entries))
	return entries, nil
}

func (s *Service) resolveItem(ctx context.Context, id snowflake.ID) (*catalogdomain.FoodItem, error) {
	if item, ok := s.items.Get(id); ok {
		return item, nil
	}
	item, err := s.catalog.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item != nil {
		s.items.Set(id, item)
	}
	return item, nil
}

func (s *Service) publishFailure(reason string) {
	s.current.Store(&snapshot{state: recdomain.State{
		Kind:   recdomain.StateFailed,
		Reason: reason,
	}})
}

func toMatrixPairs(pairs []orderdomain.Pair) []matrix.Pair {
	out := make([]matrix.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = matrix.Pair{UserID: int64(p.UserID), ItemID: int64(p.FoodID)}
	}
	return out
}
