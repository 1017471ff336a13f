package main

import (
	"context"
	"crypto/tls"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/config"
	"github.com/Debmalya727/personal-finance-tracker/src/database"
	"github.com/Debmalya727/personal-finance-tracker/src/handlers"
	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/Debmalya727/personal-finance-tracker/src/security"
	"github.com/Debmalya727/personal-finance-tracker/src/services"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

const minJWTSecretLength = 32

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies one global token bucket to every request.
func rateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.WarnFromContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path)
				utils.SendJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(origins []string) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-CSRF-Token, Authorization, X-Requested-With")
				w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, X-Request-ID")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setupRouter wires services and handlers onto a chi router.
func setupRouter(store model.Store, prices services.PriceService, authService *security.AuthService) http.Handler {
	portfolioService := services.NewPortfolioService(store, prices, config.Cfg.ReportingCurrency, config.Cfg.FallbackUSDRate)
	taxService := services.NewTaxService(store)
	dashboardService := services.NewDashboardService(store)
	reconciliationService := services.NewReconciliationService(store)

	userHandler := handlers.NewUserHandler(store, authService)
	txHandler := handlers.NewTransactionHandler(store)
	schemeHandler := handlers.NewSchemeHandler(store)
	salaryHandler := handlers.NewSalaryHandler(store)
	loanHandler := handlers.NewLoanHandler(store)
	portfolioHandler := handlers.NewPortfolioHandler(store, portfolioService)
	taxHandler := handlers.NewTaxHandler(taxService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, reconciliationService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS(config.Cfg.AllowedOrigins))
	r.Use(rateLimitMiddleware(config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Personal finance tracker backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/csrf", handlers.GetCSRFToken)

		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware)
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/tax/compute", taxHandler.HandleCompute)
		})

		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware)
			r.Use(userHandler.AuthMiddleware)

			r.Get("/profile", userHandler.GetProfileHandler)
			r.Put("/profile", userHandler.UpdateProfileHandler)

			r.Get("/transactions", txHandler.HandleListTransactions)
			r.Post("/transactions", txHandler.HandleCreateTransaction)
			r.Put("/transactions/{id}", txHandler.HandleUpdateTransaction)
			r.Delete("/transactions/{id}", txHandler.HandleDeleteTransaction)

			r.Get("/schemes", schemeHandler.HandleListSchemes)
			r.Post("/schemes", schemeHandler.HandleCreateScheme)
			r.Put("/schemes/{id}", schemeHandler.HandleUpdateScheme)
			r.Delete("/schemes/{id}", schemeHandler.HandleDeleteScheme)

			r.Get("/salary", salaryHandler.HandleGetSalary)
			r.Put("/salary", salaryHandler.HandleUpsertSalary)

			r.Get("/investments", portfolioHandler.HandleListInvestments)
			r.Post("/investments", portfolioHandler.HandleCreateInvestment)
			r.Get("/investments/sold", portfolioHandler.HandleListSold)
			r.Get("/investments/refresh", portfolioHandler.HandleRefreshHoldings)
			r.Delete("/investments/{id}", portfolioHandler.HandleDeleteInvestment)
			r.Post("/investments/{id}/sell", portfolioHandler.HandleSellInvestment)

			r.Get("/loans", loanHandler.HandleListLoans)
			r.Post("/loans", loanHandler.HandleCreateLoan)
			r.Put("/loans/{id}", loanHandler.HandleUpdateLoan)
			r.Delete("/loans/{id}", loanHandler.HandleDeleteLoan)

			r.Get("/net-worth", portfolioHandler.HandleGetNetWorth)
			r.Get("/tax/estimate", taxHandler.HandleGetEstimate)
			r.Get("/dashboard", dashboardHandler.HandleGetDashboard)
			r.Post("/reconcile", dashboardHandler.HandleReconcile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "Not found", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	return r
}

func openStore() *model.SQLStore {
	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	if err := database.RunMigrations(database.DB); err != nil {
		stdlog.Fatalf("Failed to apply migrations: %v", err)
	}
	return model.NewSQLStore(database.DB)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "migrate":
		openStore()
		logger.L.Info("Migrations applied")
	case "reconcile":
		store := openStore()
		n, err := services.NewReconciliationService(store).ReconcileAll(context.Background(), processors.Today())
		if err != nil {
			logger.L.Error("Reconciliation finished with errors", "reconciled", n, "error", err)
			os.Exit(1)
		}
		logger.L.Info("Reconciliation finished", "reconciled", n)
	case "serve":
		serve()
	default:
		stdlog.Fatalf("unknown command %q (expected serve, migrate or reconcile)", command)
	}
}

func serve() {
	logger.L.Info("Personal finance tracker server starting...")

	if len(config.Cfg.JWTSecret) < minJWTSecretLength {
		logger.L.Error("JWT_SECRET configuration invalid.", "minLength", minJWTSecretLength)
		os.Exit(1)
	}

	store := openStore()
	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	priceService := services.NewPriceService(services.PriceServiceConfigFromEnv())

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      setupRouter(store, priceService, authService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.L.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
	}
	database.DB.Close()
}
