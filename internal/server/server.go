package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditdomain "github.com/smallbiznis/factura/internal/audit/domain"
	"github.com/smallbiznis/factura/internal/auditcontext"
	authdomain "github.com/smallbiznis/factura/internal/auth/domain"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/internal/config"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/observability/logger"
	"github.com/smallbiznis/factura/internal/observability/metrics"
	searchdomain "github.com/smallbiznis/factura/internal/search/domain"
	servicecatalogdomain "github.com/smallbiznis/factura/internal/servicecatalog/domain"
	transactiondomain "github.com/smallbiznis/factura/internal/transaction/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const HeaderRequestID = "X-Request-Id"

type Server struct {
	cfg config.Config
	db  *gorm.DB
	log *zap.Logger

	invoiceSvc     invoicedomain.Service
	customerSvc    customerdomain.Service
	bankAccountSvc bankaccountdomain.Service
	catalogSvc     servicecatalogdomain.Service
	categorySvc    categorydomain.Service
	transactionSvc transactiondomain.Service
	searchSvc      searchdomain.Service
	authSvc        authdomain.Service
	auditSvc       auditdomain.Service

	httpMetrics *metrics.HTTPMetrics
	metrics     *metrics.Provider
	limiter     *loginLimiter
}

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger

	InvoiceSvc     invoicedomain.Service
	CustomerSvc    customerdomain.Service
	BankAccountSvc bankaccountdomain.Service
	CatalogSvc     servicecatalogdomain.Service
	CategorySvc    categorydomain.Service
	TransactionSvc transactiondomain.Service
	SearchSvc      searchdomain.Service
	AuthSvc        authdomain.Service
	AuditSvc       auditdomain.Service

	HTTPMetrics *metrics.HTTPMetrics
	Metrics     *metrics.Provider
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:            p.Config,
		db:             p.DB,
		log:            p.Log.Named("server"),
		invoiceSvc:     p.InvoiceSvc,
		customerSvc:    p.CustomerSvc,
		bankAccountSvc: p.BankAccountSvc,
		catalogSvc:     p.CatalogSvc,
		categorySvc:    p.CategorySvc,
		transactionSvc: p.TransactionSvc,
		searchSvc:      p.SearchSvc,
		authSvc:        p.AuthSvc,
		auditSvc:       p.AuditSvc,
		httpMetrics:    p.HTTPMetrics,
		metrics:        p.Metrics,
		limiter:        newLoginLimiter(20, time.Minute),
	}
}

// Router wires the HTTP surface. Login sits outside the API key guard and
// behind a per-address rate limit; everything else under /api requires a key.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(logger.GinMiddleware())
	if s.httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(s.httpMetrics))
	}

	engine.GET("/healthz", s.Healthz)
	if s.cfg.MetricsEnable {
		engine.GET("/metrics", s.Metrics)
	}

	api := engine.Group("/api")
	api.POST("/login", s.RateLimited(), s.Login)

	authed := api.Group("", s.APIKeyRequired())
	{
		authed.GET("/users", s.ListUsers)
		authed.POST("/users", s.CreateUser)
		authed.DELETE("/users/:id", s.DeleteUser)

		authed.GET("/customers", s.ListCustomers)
		authed.POST("/customers", s.CreateCustomer)
		authed.GET("/customers/:id", s.GetCustomer)
		authed.PUT("/customers/:id", s.UpdateCustomer)
		authed.DELETE("/customers/:id", s.DeleteCustomer)

		authed.GET("/bank-accounts", s.ListBankAccounts)
		authed.POST("/bank-accounts", s.CreateBankAccount)
		authed.GET("/bank-accounts/:id", s.GetBankAccount)
		authed.PUT("/bank-accounts/:id", s.UpdateBankAccount)
		authed.DELETE("/bank-accounts/:id", s.DeleteBankAccount)

		authed.GET("/services", s.ListCatalogServices)
		authed.POST("/services", s.CreateCatalogService)
		authed.GET("/services/:id", s.GetCatalogService)
		authed.PUT("/services/:id", s.UpdateCatalogService)
		authed.DELETE("/services/:id", s.DeleteCatalogService)

		authed.GET("/transaction-categories", s.ListTransactionCategories)
		authed.POST("/transaction-categories", s.CreateTransactionCategory)
		authed.GET("/transaction-categories/:id", s.GetTransactionCategory)
		authed.PUT("/transaction-categories/:id", s.UpdateTransactionCategory)
		authed.DELETE("/transaction-categories/:id", s.DeleteTransactionCategory)

		authed.GET("/invoices", s.ListInvoices)
		authed.POST("/invoices", s.CreateInvoice)
		authed.GET("/invoices/:id", s.GetInvoice)
		authed.PUT("/invoices/:id", s.UpdateInvoice)
		authed.DELETE("/invoices/:id", s.DeleteInvoice)
		authed.GET("/invoices/:id/document", s.GetInvoiceDocument)

		authed.GET("/transactions", s.ListTransactions)
		authed.POST("/transactions", s.CreateTransaction)
		authed.GET("/transactions/summary", s.GetTransactionsSummary)
		authed.GET("/transactions/balances", s.GetBankBalances)
		authed.GET("/transactions/:id", s.GetTransaction)
		authed.PUT("/transactions/:id", s.UpdateTransaction)
		authed.DELETE("/transactions/:id", s.DeleteTransaction)

		authed.GET("/search", s.Search)
	}

	return engine
}

// RateLimited throttles by client address, for unauthenticated endpoints.
func (s *Server) RateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := auditcontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}
