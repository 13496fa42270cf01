package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"shop-service/config"
	"shop-service/internal/admin"
	"shop-service/internal/api"
	"shop-service/internal/cart"
	"shop-service/internal/catalog"
	"shop-service/internal/checkout"
	"shop-service/internal/cli"
	"shop-service/internal/customer"
	"shop-service/internal/models"
	"shop-service/internal/payment"
	"shop-service/internal/util"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting shop service")

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer("shop-service", cfg.Observ.JaegerEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	cat := catalog.NewCatalog()
	if err := seedCatalog(cat); err != nil {
		// A malformed seed set is a configuration error; there is no store
		// to run without.
		log.Fatalf("Error initializing store: %v", err)
	}

	fmt.Println("======================================")
	fmt.Println(" Welcome to the Simple Online Shop!")
	fmt.Println("======================================")
	fmt.Print("Enter your name: ")

	stdin := bufio.NewScanner(os.Stdin)
	if !stdin.Scan() {
		return
	}
	name := strings.TrimSpace(stdin.Text())

	cust, err := customer.New(name, cart.New(cat))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := seedInstruments(cust); err != nil {
		log.Fatalf("Error: %v", err)
	}

	engine := checkout.NewEngine(cat, checkout.Policy{
		DiscountThreshold: cfg.Business.DiscountThreshold,
		DiscountRate:      cfg.Business.DiscountRate,
		SettleEpsilon:     cfg.Business.SettleEpsilon,
	})

	session := admin.NewSession(admin.StaticVerifier{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(cust.History)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Observ.MetricsPort),
		Handler: router,
	}

	go func() {
		log.Printf("Starting metrics server on port %s", cfg.Observ.MetricsPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	app := cli.NewApp(stdin, os.Stdout, cat, cust, engine, session)
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down...")
		appCancel()
	case <-done:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server forced to shutdown: %v", err)
	}

	log.Println("Shop service exited")
}

// seedCatalog loads the demo product set.
func seedCatalog(cat *catalog.Catalog) error {
	seeds := []struct {
		id, name  string
		price     string
		stock     int
		category  models.Category
		attribute string
	}{
		{"E01", "Smartphone", "299.99", 5, models.CategoryElectronics, "Samsung"},
		{"E02", "Laptop", "799.99", 2, models.CategoryElectronics, "Dell"},
		{"C01", "T-shirt", "19.99", 10, models.CategoryClothing, "M"},
		{"C02", "Jeans", "39.99", 7, models.CategoryClothing, "L"},
	}

	for _, s := range seeds {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return err
		}
		if _, err := cat.CreateProduct(s.id, s.name, price, s.stock, s.category, s.attribute); err != nil {
			return err
		}
	}
	return nil
}

// seedInstruments registers the demo card and wallet.
func seedInstruments(cust *customer.Customer) error {
	card, err := payment.NewCard("1234567890123456", decimal.NewFromInt(1000))
	if err != nil {
		return err
	}
	wallet, err := payment.NewWallet("user@example.com", decimal.NewFromInt(500))
	if err != nil {
		return err
	}
	cust.AddInstrument(card)
	cust.AddInstrument(wallet)
	return nil
}
