package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/internal/database"
	"github.com/pocketbook/pocketbook/internal/event_bus"
	"github.com/pocketbook/pocketbook/internal/notify"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/importer"
	"github.com/pocketbook/pocketbook/pkg/investment"
	"github.com/pocketbook/pocketbook/pkg/market"
	"github.com/pocketbook/pocketbook/pkg/settings"
	"github.com/pocketbook/pocketbook/pkg/stats"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// Stores are the repositories of the configured storage backend.
type Stores struct {
	Transactions transaction.Repository
	Budgets      budget.Repository
	Settings     settings.Repository
	Close        func()
}

// OpenStores opens and migrates the backend named by cfg.Storage.Backend.
func OpenStores(ctx context.Context, cfg config.Application) (Stores, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if err := database.Migrate(cfg.Database); err != nil {
			return Stores{}, err
		}
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return Stores{}, err
		}
		log.Infof("Using postgres storage at %s:%d", cfg.Database.Host, cfg.Database.Port)
		return PostgresStores(pool), nil
	case config.BackendSQLite, "":
		db, err := database.OpenLocal(cfg.Storage.Path)
		if err != nil {
			return Stores{}, err
		}
		if err := database.MigrateLocal(db); err != nil {
			db.Close()
			return Stores{}, err
		}
		log.Infof("Using local storage at %s", cfg.Storage.Path)
		return LocalStores(db), nil
	}
	return Stores{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Transactions: transaction.NewRepository(pool),
		Budgets:      budget.NewRepository(pool),
		Settings:     settings.NewRepository(pool),
		Close:        pool.Close,
	}
}

func LocalStores(db *sql.DB) Stores {
	return Stores{
		Transactions: transaction.NewLocalRepository(db),
		Budgets:      budget.NewLocalRepository(db),
		Settings:     settings.NewLocalRepository(db),
		Close: func() {
			if err := db.Close(); err != nil {
				log.Warnf("failed to close local database: %v", err)
			}
		},
	}
}

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	SettingsService *settings.Service
	SettingsHandler *settings.Handler

	PriceBoard        *market.Board
	InvestmentService *investment.Service
	InvestmentHandler *investment.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	Importer *importer.Importer
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(stores Stores, cfg config.Application, prices market.Client, clock utils.Clock) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = clock

	deps.TransactionService = transaction.NewService(stores.Transactions, deps.EventBus, deps.Clock)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService, deps.Clock)

	deps.BudgetService = budget.NewService(stores.Budgets, stores.Transactions, deps.EventBus, deps.Clock)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.SettingsService = settings.NewService(stores.Settings, deps.EventBus, settings.Settings{
		Currency: cfg.Defaults.Currency,
		Language: cfg.Defaults.Language,
	})
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.PriceBoard = market.NewBoard(prices)
	deps.InvestmentService = investment.NewService(stores.Transactions, deps.PriceBoard)
	deps.InvestmentHandler = investment.NewHandler(deps.InvestmentService, func() string {
		return deps.SettingsService.Current().Currency
	})
	deps.SettingsService.OnCurrencyChange(deps.PriceBoard.RefreshAsync)

	deps.StatsService = stats.NewStatsServiceImpl(stores.Transactions, stores.Budgets, deps.Clock)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer, deps.Clock)

	deps.Importer = importer.NewImporter(deps.TransactionService)

	return deps
}

// AttachNotifier forwards bus events to AMQP when a broker url is configured.
// The returned function closes the connection.
func AttachNotifier(deps *Dependencies, cfg config.AMQP) (func(), error) {
	if cfg.Url == "" {
		return func() {}, nil
	}
	publisher, err := notify.NewAMQPPublisher(cfg.Url, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	unsubscribe := notify.NewForwarder(publisher).Attach(deps.EventBus)
	return func() {
		unsubscribe()
		if err := publisher.Close(); err != nil {
			log.Warnf("failed to close AMQP connection: %v", err)
		}
	}, nil
}
