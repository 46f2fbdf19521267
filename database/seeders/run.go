// Package seeders registers database seed functions and runs them in
// registration order. Define one per file:
//
//	func init() {
//	    seeders.Register("items", SeedItems)
//	}
//
// Run every seeder with `vastra seed`, or one with `vastra seed --only items`.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts a seeder's rows.
type SeederFunc func(db *gorm.DB) error

var (
	mu    sync.Mutex
	order []string
	byNam = map[string]SeederFunc{}
)

// Register adds a named seeder. Registering the same name twice panics,
// since the second would silently shadow the first.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := byNam[name]; dup {
		panic("seeders: duplicate seeder " + name)
	}
	order = append(order, name)
	byNam[name] = fn
}

// RunAll executes every seeder in registration order, stopping at the
// first failure.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	names := append([]string(nil), order...)
	mu.Unlock()

	if len(names) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}
	for _, name := range names {
		if err := runOne(db, name); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a single seeder by name.
func Run(db *gorm.DB, name string) error {
	mu.Lock()
	_, ok := byNam[name]
	mu.Unlock()
	if !ok {
		return fmt.Errorf("seeders: no seeder named %q", name)
	}
	return runOne(db, name)
}

func runOne(db *gorm.DB, name string) error {
	mu.Lock()
	fn := byNam[name]
	mu.Unlock()

	fmt.Printf("  • Seeding: %s … ", name)
	if err := fn(db); err != nil {
		fmt.Println("FAILED")
		return fmt.Errorf("seeder %q: %w", name, err)
	}
	fmt.Println("done")
	return nil
}
