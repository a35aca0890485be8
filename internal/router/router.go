package router

import (
	"time"

	"hyvai/config"
	"hyvai/internal/handler"
	"hyvai/internal/middleware"
	"hyvai/internal/repository"
	"hyvai/internal/service"
	"hyvai/pkg/mlrisk"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	handler.RegisterValidators()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	productRepo := repository.NewProductRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)
	riskRepo := repository.NewRiskRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	systemLogRepo := repository.NewSystemLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	scoringSvc := service.NewScoringService(scoreRepo, installmentRepo, txRepo, userRepo, companyRepo, log)
	installmentSvc := service.NewInstallmentService(installmentRepo, productRepo, userRepo, txRepo, scoringSvc, scoringSvc, log)
	escalationSvc := service.NewEscalationService(escalationRepo, installmentRepo, cfg.Risk.SuperAdminEmail)
	auditSvc := service.NewAuditService(systemLogRepo, log)

	predictor := mlrisk.NewClient(cfg.ML.PredictorURL, cfg.ML.Timeout)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, log)
	installmentHandler := handler.NewInstallmentHandler(installmentSvc, scoringSvc, installmentRepo, log)
	paymentHandler := handler.NewPaymentHandler(txRepo, log)
	adminHandler := handler.NewAdminHandler(installmentSvc, auditSvc, companyRepo, userRepo, installmentRepo, analyticsRepo, cfg.Risk.SuperAdminEmail, log)
	riskHandler := handler.NewRiskHandler(escalationSvc, riskRepo, userRepo, cfg.Risk.SuperAdminEmail, log)
	mlHandler := handler.NewMLHandler(analyticsRepo, predictor, log)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		installments := api.Group("/installments")
		installments.Use(authMw)
		{
			installments.POST("/apply", installmentHandler.Apply)
			installments.GET("/plan", installmentHandler.GetPlan)
			installments.GET("/history", installmentHandler.GetHistory)
			installments.GET("/rejected", installmentHandler.GetRejected)
			installments.GET("/eligibility", installmentHandler.CheckEligibility)
			installments.GET("/status", installmentHandler.GetStatus)
			installments.GET("/score-history", installmentHandler.GetScoreHistory)
			installments.POST("/score", installmentHandler.RecordScore)
		}

		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/transactions", paymentHandler.CreateTransaction)
			payments.GET("/transactions", paymentHandler.ListTransactions)
			payments.POST("/payroll-deduction", paymentHandler.ProcessPayrollDeduction)
			payments.POST("/reminders", adminMw, paymentHandler.SendReminder)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/companies", adminHandler.ListCompanies)
			admin.POST("/companies", adminHandler.CreateCompany)
			admin.PUT("/companies/:id/risk", adminHandler.UpdateCompanyRisk)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/installments", adminHandler.ListInstallments)
			admin.PUT("/installments/:id", adminHandler.UpdateInstallment)
			admin.PATCH("/installments/:id/status", adminHandler.DecideInstallment)
			admin.GET("/analytics/companies", adminHandler.CompanyAnalytics)
			admin.GET("/analytics/employees", adminHandler.EmployeeAnalytics)
			admin.GET("/insights", adminHandler.DashboardInsights)

			// super-admin only; the handlers enforce the identity check
			admin.GET("/logs", adminHandler.GetAdminLogs)
			admin.GET("/super/users", adminHandler.ListAllUsers)
			admin.PUT("/super/users/:id", adminHandler.UpdateUser)
		}

		risk := api.Group("/risk")
		risk.Use(authMw, adminMw)
		{
			risk.GET("/overview", riskHandler.Overview)
			risk.GET("/installments", riskHandler.ListRisky)
			risk.POST("/escalate", riskHandler.CreateEscalation)
			risk.GET("/escalate/:installment_id", riskHandler.ListEscalations)
			risk.GET("/admins", riskHandler.ListAssignableAdmins)
			risk.GET("/me", riskHandler.Me)
		}

		ml := api.Group("/ml")
		ml.Use(authMw, adminMw)
		{
			ml.GET("/dataset", mlHandler.Dataset)
			ml.POST("/predict", mlHandler.Predict)
		}
	}

	return r
}
