package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotativo/rotativo/internal/benefit"
	benefitdomain "github.com/rotativo/rotativo/internal/benefit/domain"
	"github.com/rotativo/rotativo/internal/cep"
	"github.com/rotativo/rotativo/internal/config"
	"github.com/rotativo/rotativo/internal/invoice"
	"github.com/rotativo/rotativo/internal/ledger"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
	obstracing "github.com/rotativo/rotativo/internal/observability/tracing"
	"github.com/rotativo/rotativo/internal/payment"
	paymentdomain "github.com/rotativo/rotativo/internal/payment/domain"
	"github.com/rotativo/rotativo/internal/providers/serpro"
	"github.com/rotativo/rotativo/internal/ticket"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	"github.com/rotativo/rotativo/internal/tickettype"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	"github.com/rotativo/rotativo/internal/user"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	user.Module,
	tickettype.Module,
	ticket.Module,
	invoice.Module,
	cep.Module,
	ledger.Module,
	benefit.Module,
	payment.Module,
	serpro.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// Server holds the HTTP handler dependencies.
type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	ticketSvc  ticketdomain.Service
	typeRepo   tickettypedomain.Repository
	benefitSvc benefitdomain.Service
	paymentSvc paymentdomain.Service
	ledgerSvc  ledgerdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	TicketSvc  ticketdomain.Service
	TypeRepo   tickettypedomain.Repository
	BenefitSvc benefitdomain.Service
	PaymentSvc paymentdomain.Service
	LedgerSvc  ledgerdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		ticketSvc:  p.TicketSvc,
		typeRepo:   p.TypeRepo,
		benefitSvc: p.BenefitSvc,
		paymentSvc: p.PaymentSvc,
		ledgerSvc:  p.LedgerSvc,
	}
	s.RegisterRoutes()
	return s
}

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1", Identity())

	v1.POST("/tickets", s.CreateTicket)
	v1.GET("/tickets", s.ListTickets)
	v1.GET("/tickets/:id", s.GetTicket)

	v1.GET("/ticket-types", s.ListTicketTypes)

	v1.POST("/benefits", s.ApplyBenefit)
	v1.POST("/tickets/:id/benefits", s.ApplyBenefitToTicket)
	v1.GET("/tickets/:id/benefits", s.ListTicketBenefits)

	v1.POST("/tickets/:id/payments", s.SettleTicket)
	v1.GET("/tickets/:id/payments", s.ListTicketPayments)

	v1.POST("/credits", s.AddCredit)
	v1.GET("/credits", s.GetStatement)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server started", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
