package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"lending-ledger/internal/adapter/funding"
	httpadp "lending-ledger/internal/adapter/http"
	"lending-ledger/internal/adapter/middleware"
	"lending-ledger/internal/adapter/repository/mysql"
	"lending-ledger/internal/adapter/terms"
	"lending-ledger/internal/config"
	loanDomain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/infrastructure/cache"
	"lending-ledger/internal/infrastructure/db"
	"lending-ledger/internal/period"
	loanUC "lending-ledger/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(&loanDomain.Loan{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	repo := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	clock := period.NewClock(cfg.PeriodLengthSecs, cfg.PeriodOffsetSecs)
	uc := loanUC.NewUsecase(repo, tx, funding.NewLogHooks(), terms.FromConfig(cfg), clock)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(uc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("", middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	lh.Register(api)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
