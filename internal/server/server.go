package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/mensa/internal/catalog"
	"github.com/smallbiznis/mensa/internal/config"
	"github.com/smallbiznis/mensa/internal/homefeed"
	homefeeddomain "github.com/smallbiznis/mensa/internal/homefeed/domain"
	"github.com/smallbiznis/mensa/internal/observability"
	obsmiddleware "github.com/smallbiznis/mensa/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/mensa/internal/observability/metrics"
	"github.com/smallbiznis/mensa/internal/order"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	"github.com/smallbiznis/mensa/internal/profile"
	"github.com/smallbiznis/mensa/internal/promotion"
	"github.com/smallbiznis/mensa/internal/recommend"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	profile.Module,
	promotion.Module,
	order.Module,
	recommend.Module,
	homefeed.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.HTTPPort),
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	homefeedSvc homefeeddomain.Service
	orderSvc    orderdomain.Service
	recSvc      recdomain.Service
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	HomefeedSvc homefeeddomain.Service
	OrderSvc    orderdomain.Service
	RecSvc      recdomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		homefeedSvc: p.HomefeedSvc,
		orderSvc:    p.OrderSvc,
		recSvc:      p.RecSvc,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	users := v1.Group("/users/:user_id")
	{
		users.GET("/context", s.GetUserContext)
		users.GET("/recommendations", s.GetUserRecommendations)
	}

	v1.POST("/orders", s.PlaceOrder)

	rec := v1.Group("/recommend")
	{
		rec.POST("/train", s.TrainModel)
		rec.GET("/state", s.GetModelState)
	}
}
