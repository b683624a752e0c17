package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	batchapp "github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	contractapp "github.com/mohammadpnp/rendimientos-admin/internal/application/contract"
	userapp "github.com/mohammadpnp/rendimientos-admin/internal/application/user"
	yieldapp "github.com/mohammadpnp/rendimientos-admin/internal/application/yield"
	"github.com/mohammadpnp/rendimientos-admin/internal/config"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/db/models"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/repository"
)

// Services holds the use cases shared by the HTTP server and the CLI.
type Services struct {
	Importers      map[batchdomain.Entity]batchapp.Importer
	GetRun         batchapp.GetRun
	ListRuns       batchapp.ListRuns
	ListContracts  contractapp.ListContracts
	ContractTotals contractapp.GetContractTotals
	GetUserByID    userapp.GetUserByID
}

// OpenDatabase connects gorm and a pgx pool to the same database and
// migrates the schema when enabled.
func OpenDatabase(ctx context.Context, cfg *config.Configuration) (*gorm.DB, *pgxpool.Pool, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := models.Migrate(ctx, db); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return db, pool, nil
}

func NewServices(cfg *config.Configuration, db *gorm.DB, pool *pgxpool.Pool, logger *logrus.Logger) *Services {
	lookup := repository.NewDirectoryLookup(pool)
	store := repository.NewDirectoryRepository(db, cfg.Import.BcryptCost)
	runs := repository.NewBatchRunRepository(db)
	calc := contract.Calculator{ExpiringWithinDays: cfg.ExpiringWithinDays}

	opts := func(entity batchdomain.Entity) batchapp.Options {
		return batchapp.Options{
			MaxErrors: cfg.Import.MaxReportedErrors,
			Runs:      runs,
			Logger:    logger.WithField("component", "importer").WithField("entity", string(entity)),
		}
	}

	return &Services{
		Importers: map[batchdomain.Entity]batchapp.Importer{
			batchdomain.EntityUsers:     userapp.NewImportUsers(lookup, store, opts(batchdomain.EntityUsers)),
			batchdomain.EntityContracts: contractapp.NewImportContracts(lookup, store, opts(batchdomain.EntityContracts)),
			batchdomain.EntityYields:    yieldapp.NewImportYields(lookup, store, opts(batchdomain.EntityYields)),
		},
		GetRun:         batchapp.NewGetRun(runs),
		ListRuns:       batchapp.NewListRuns(runs),
		ListContracts:  contractapp.NewListContracts(store, calc, time.Now),
		ContractTotals: contractapp.NewGetContractTotals(store, calc, time.Now),
		GetUserByID:    userapp.NewGetUserByID(repository.NewUserQueryRepository(db), store, calc, time.Now),
	}
}
