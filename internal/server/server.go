package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/kongfuworld/settlement/internal/commission/domain"
	"github.com/kongfuworld/settlement/internal/config"
	editorincomedomain "github.com/kongfuworld/settlement/internal/editorincome/domain"
	"github.com/kongfuworld/settlement/internal/monthlock"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	royaltydomain "github.com/kongfuworld/settlement/internal/royalty/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	log    *zap.Logger
	sqlDB  *sql.DB
	locker *monthlock.Locker

	revenueSvc      revenuedomain.Service
	royaltySvc      royaltydomain.Service
	commissionSvc   commissiondomain.Service
	editorIncomeSvc editorincomedomain.Service
}

type ServerParam struct {
	fx.In

	Log    *zap.Logger
	SQLDB  *sql.DB
	Locker *monthlock.Locker

	RevenueSvc      revenuedomain.Service
	RoyaltySvc      royaltydomain.Service
	CommissionSvc   commissiondomain.Service
	EditorIncomeSvc editorincomedomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:    p.Log.Named("server"),
		sqlDB:  p.SQLDB,
		locker: p.Locker,

		revenueSvc:      p.RevenueSvc,
		royaltySvc:      p.RoyaltySvc,
		commissionSvc:   p.CommissionSvc,
		editorIncomeSvc: p.EditorIncomeSvc,
	}
}

func RegisterRoutes(s *Server) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.Health)
	engine.GET("/readyz", s.Readiness)
	engine.GET("/metrics", metricsHandler())

	v1 := engine.Group("/v1/settlement")
	{
		v1.POST("/spending/generate", s.GenerateSpending)
		v1.DELETE("/spending", s.DeleteSpending)

		v1.POST("/royalties/generate", s.GenerateRoyalties)
		v1.DELETE("/royalties", s.DeleteRoyalties)

		v1.POST("/commissions/generate", s.GenerateCommissions)
		v1.DELETE("/commissions", s.DeleteCommissions)

		v1.POST("/editor-income/generate", s.DistributeEditorIncome)
	}

	return engine
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.Server.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(RegisterRoutes),
	fx.Invoke(RunHTTP),
)
