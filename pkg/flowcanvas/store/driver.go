package store

import (
	"fmt"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/registry"
)

// Opener creates a store from a driver-specific data source name.
type Opener func(dsn string) (Store, error)

var drivers = registry.New[string, Opener]()

func init() {
	Register("memory", func(string) (Store, error) { return NewMemoryStore(), nil })
	Register("sqlite", func(dsn string) (Store, error) {
		if dsn == "" {
			dsn = "flowcanvas.db"
		}
		return NewSQLiteStore(dsn)
	})
}

// Register makes a driver available to Open. Registering a name twice
// replaces the earlier opener.
func Register(name string, open Opener) {
	drivers.Register(name, open)
}

// Drivers returns the registered driver names in sorted order.
func Drivers() []string {
	return drivers.Keys()
}

// Open creates a store with the named driver.
func Open(driver, dsn string) (Store, error) {
	open, ok := drivers.Get(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownDriver, driver, Drivers())
	}
	return open(dsn)
}
