package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Mihail-K/Dart/pkg/query"
)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Driver binds a configured driver name to the database/sql driver it
// uses, the SQL dialect it speaks, and how it forms a DSN from a Config.
type Driver struct {
	// SQLName is the name registered with database/sql.
	SQLName string

	// Dialect is the SQL dialect the driver speaks.
	Dialect query.Dialect

	// DSN builds the driver-specific connection string.
	DSN func(cfg *Config) (string, error)
}

// RegisterDriver adds a driver to the registry. Called by driver
// bindings in their init() functions.
func RegisterDriver(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = d
}

// GetDriver retrieves a registered driver by name.
func GetDriver(name string) (Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	return d, ok
}

// ListDrivers returns all registered driver names (sorted).
func ListDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when an unregistered driver is requested.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q, available drivers: %v", e.Name, e.Available)
}
