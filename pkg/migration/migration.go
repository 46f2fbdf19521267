// Package migration tracks schema changes in a ledger table and applies
// them in timestamp order. Each migration lives in database/migrations
// and registers itself via init():
//
//	func init() {
//	    migration.Register("20260101000002_create_cart_lines_table", &CreateCartLinesTable{})
//	}
//
// Applied together in one run, migrations share a batch number so that
// Rollback reverses exactly the last batch.
package migration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/logger"
	"gorm.io/gorm"
)

// Migration alters the schema. Down must undo what Up did.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// ledgerRow records one applied migration in the tracking table.
type ledgerRow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;size:255;not null"`
	Batch     int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (ledgerRow) TableName() string { return "vastra_migrations" }

var registry = map[string]Migration{}

// Register adds a migration under a timestamp-prefixed name, e.g.
// "20260101000000_create_users_table". Names sort lexicographically,
// which is also chronological, so registration order does not matter.
func Register(name string, m Migration) {
	if _, dup := registry[name]; dup {
		panic("migration: duplicate name " + name)
	}
	registry[name] = m
}

// Runner applies registered migrations against one database.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// ledger loads applied migrations keyed by name, creating the tracking
// table on first use.
func (r *Runner) ledger() (map[string]ledgerRow, error) {
	if err := r.db.AutoMigrate(&ledgerRow{}); err != nil {
		return nil, fmt.Errorf("migration: ledger table: %w", err)
	}
	var rows []ledgerRow
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read ledger: %w", err)
	}
	applied := make(map[string]ledgerRow, len(rows))
	for _, row := range rows {
		applied[row.Name] = row
	}
	return applied, nil
}

// sortedNames returns every registered migration name in apply order.
func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run applies every migration not yet in the ledger. All migrations
// applied by one call share a batch number.
func (r *Runner) Run() error {
	applied, err := r.ledger()
	if err != nil {
		return err
	}

	batch := 0
	for _, row := range applied {
		if row.Batch > batch {
			batch = row.Batch
		}
	}
	batch++

	ran := 0
	for _, name := range sortedNames() {
		if _, done := applied[name]; done {
			continue
		}
		logger.Info("migration: applying", "name", name, "batch", batch)
		fmt.Printf("  ▶ Migrating: %s\n", name)

		if err := registry[name].Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", name, err)
		}
		if err := r.db.Create(&ledgerRow{Name: name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", name, err)
		}

		fmt.Printf("  ✅ Migrated:  %s\n", name)
		ran++
	}

	if ran == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", ran, "batch", batch)
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	applied, err := r.ledger()
	if err != nil {
		return err
	}

	last := 0
	for _, row := range applied {
		if row.Batch > last {
			last = row.Batch
		}
	}
	if last == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var rows []ledgerRow
	if err := r.db.Where("batch = ?", last).Order("name desc").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: read batch %d: %w", last, err)
	}

	for _, row := range rows {
		m, ok := registry[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s is in the ledger but not registered", row.Name)
		}

		logger.Info("migration: rolling back", "name", row.Name)
		fmt.Printf("  ◀ Rolling back: %s\n", row.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return fmt.Errorf("migration: unrecord %s: %w", row.Name, err)
		}

		fmt.Printf("  ✅ Rolled back:  %s\n", row.Name)
	}
	return nil
}

// Status prints each registered migration with its ledger state.
func (r *Runner) Status() error {
	applied, err := r.ledger()
	if err != nil {
		return err
	}

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Println(strings.Repeat("-", 80))
	for _, name := range sortedNames() {
		if row, ok := applied[name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", name, "Ran", row.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", name, "Pending")
		}
	}
	return nil
}
