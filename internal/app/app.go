package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appconfig "txreceipt/internal/config"
	"txreceipt/internal/db"
	"txreceipt/internal/http"
	"txreceipt/internal/http/handlers"
	"txreceipt/internal/money"
	"txreceipt/internal/receipt"
	redisstore "txreceipt/internal/redis"
	"txreceipt/internal/repository"
	"txreceipt/internal/service"
	libredis "txreceipt/libs/redis"
)

// App wires dependencies for the receipt service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{db: sqlDB, logger: logger}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, sqlDB); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("database schema up to date")
	}

	store := repository.NewTransactionRepository(sqlDB)

	var cache service.TransactionCache
	if cfg.Redis.Addr != "" {
		client, err := libredis.Connect(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		a.redis = client
		cache = redisstore.NewTransactionCache(client, cfg.CacheTTL())
		logger.Info("transaction cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.CacheTTL()))
	}

	receiptDeps, err := buildReceipt(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	receiptDeps.Store = store
	receiptDeps.Cache = cache

	txSvc := service.NewTransactionService(store, cache, logger)
	receiptSvc := service.NewReceiptService(receiptDeps)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Transactions: handlers.NewTransactionHandlers(txSvc, logger),
		Receipts:     handlers.NewReceiptHandlers(receiptSvc, logger),
		Health:       handlers.NewHealthHandler(sqlDB),
		PublicDir:    cfg.Storage.PublicDir,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		Logger:       logger,
	})
	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return a, nil
}

// Open connects to the configured database.
func Open(ctx context.Context, cfg *appconfig.Config) (*sql.DB, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.NewPostgres(ctx, dsn, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		return nil, fmt.Errorf("app: connect database: %w", err)
	}
	return sqlDB, nil
}

func buildReceipt(cfg *appconfig.Config, logger *zap.Logger) (service.ReceiptDeps, error) {
	rc := cfg.Receipt

	layout, err := Layout(cfg)
	if err != nil {
		return service.ReceiptDeps{}, err
	}

	files, err := receipt.NewFileStore(cfg.Storage.PublicDir)
	if err != nil {
		return service.ReceiptDeps{}, err
	}

	logo, err := loadAsset(cfg, "logo", rc.LogoFile, logger)
	if err != nil {
		return service.ReceiptDeps{}, err
	}
	stamp, err := loadAsset(cfg, "stamp", rc.StampFile, logger)
	if err != nil {
		return service.ReceiptDeps{}, err
	}

	formatter := money.NewFormatter(rc.Currency, rc.Locale)
	deps := service.ReceiptDeps{
		Composer:  receipt.NewEngine(layout, formatter),
		Renderer:  receipt.NewRenderer("receipt-service"),
		Files:     files,
		Formatter: formatter,
		Fees:      money.NewFees(rc.Commission, rc.VATRate),
		Assets:    service.Assets{Logo: logo, Stamp: stamp},
		Logger:    logger,
	}
	if rc.QRCode {
		deps.QR = receipt.NewQRCode(256)
	}
	return deps, nil
}

// Layout converts receipt configuration into the engine layout.
func Layout(cfg *appconfig.Config) (receipt.Layout, error) {
	rc := cfg.Receipt

	page, err := receipt.PageFor(rc.PageSize, rc.Margin)
	if err != nil {
		return receipt.Layout{}, err
	}
	brand, err := receipt.ParseColor(rc.BrandColor)
	if err != nil {
		return receipt.Layout{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return receipt.Layout{}, err
	}

	return receipt.Layout{
		Page:              page,
		Brand:             brand,
		BankName:          rc.BankName,
		Subtitle:          rc.Subtitle,
		Tagline:           rc.Tagline,
		Copyright:         rc.Copyright,
		ServiceReason:     rc.ServiceReason,
		PayerAccount:      rc.PayerAccount,
		AccountMaskPrefix: rc.AccountMaskPrefix,
		VATRate:           decimal.NewFromFloat(rc.VATRate),
		Issuer:            gridRows(rc.Issuer),
		Customer:          gridRows(rc.Customer),
		Location:          loc,
	}, nil
}

func gridRows(fields []appconfig.Field) []receipt.GridRow {
	rows := make([]receipt.GridRow, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, receipt.GridRow{Label: f.Label, Value: f.Value, Field: f.Field})
	}
	return rows
}

func loadAsset(cfg *appconfig.Config, name, file string, logger *zap.Logger) (*receipt.Image, error) {
	if file == "" {
		return nil, nil
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Storage.AssetsDir, file)
	}
	img, err := receipt.LoadImage(name, path)
	if err != nil {
		return nil, err
	}
	if img == nil {
		logger.Warn("receipt asset not found, skipping", zap.String("asset", name), zap.String("path", path))
	}
	return img, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
