// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/listr-birding/listr/internal/conf"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Interface abstracts the underlying database implementation and defines the
// operations available to the ingest pipeline and the optimizer.
type Interface interface {
	Open() error
	Close() error

	// batch pipeline writes, each replaces the table contents transactionally
	ReplaceSightings(ctx context.Context, sightings []Sighting) error
	ReplaceHotspots(ctx context.Context, hotspots []Hotspot) error
	ReplaceDailyCounts(ctx context.Context, counts []DailyCount) error
	ReplaceRollingEstimates(ctx context.Context, estimates []RollingEstimate) error

	// read-only queries used during optimization
	BestEstimates(ctx context.Context, daysOfYear []int, excluded []string, county, state string) ([]SpeciesProbability, error)
	HotspotsByID(ctx context.Context, localityIDs []int64) ([]Hotspot, error)
	Counties(ctx context.Context) ([]string, error)
	States(ctx context.Context) ([]string, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB        *gorm.DB // GORM database instance
	BatchSize int      // rows per insert batch during table replacement
}

// New creates a new datastore instance based on the provided settings.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{
		DataStore: DataStore{BatchSize: settings.Ingest.BatchSize},
		Settings:  settings,
	}
}

// defaultBatchSize applies when no batch size is configured.
const defaultBatchSize = 1000

func (ds *DataStore) batchSize() int {
	if ds.BatchSize > 0 {
		return ds.BatchSize
	}
	return defaultBatchSize
}

// replaceTable deletes all rows of model and inserts rows in its place within
// a single transaction, so readers either see the old snapshot or the new one.
func replaceTable[T any](ctx context.Context, db *gorm.DB, rows []T, batchSize int) error {
	var model T
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
			return fmt.Errorf("clearing table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("inserting rows: %w", err)
		}
		return nil
	})
}

// ReplaceSightings replaces the sightings table with the given rows.
func (ds *DataStore) ReplaceSightings(ctx context.Context, sightings []Sighting) error {
	if err := replaceTable(ctx, ds.DB, sightings, ds.batchSize()); err != nil {
		return fmt.Errorf("replacing sightings: %w", err)
	}
	return nil
}

// ReplaceHotspots replaces the hotspots table with the given rows.
func (ds *DataStore) ReplaceHotspots(ctx context.Context, hotspots []Hotspot) error {
	if err := replaceTable(ctx, ds.DB, hotspots, ds.batchSize()); err != nil {
		return fmt.Errorf("replacing hotspots: %w", err)
	}
	return nil
}

// ReplaceDailyCounts replaces the daily_counts table with the given rows.
func (ds *DataStore) ReplaceDailyCounts(ctx context.Context, counts []DailyCount) error {
	if err := replaceTable(ctx, ds.DB, counts, ds.batchSize()); err != nil {
		return fmt.Errorf("replacing daily counts: %w", err)
	}
	return nil
}

// ReplaceRollingEstimates replaces the rolling_estimates table with the given rows.
func (ds *DataStore) ReplaceRollingEstimates(ctx context.Context, estimates []RollingEstimate) error {
	if err := replaceTable(ctx, ds.DB, estimates, ds.batchSize()); err != nil {
		return fmt.Errorf("replacing rolling estimates: %w", err)
	}
	return nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Sighting{}, &DailyCount{}, &RollingEstimate{}, &Hotspot{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
