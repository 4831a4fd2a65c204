package provider

import (
	"github.com/Mihail-K/Dart/pkg/query"
	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	RegisterDriver("sqlite", Driver{
		SQLName: "sqlite",
		Dialect: query.SQLite,
		DSN:     sqliteDSN,
	})
}

func sqliteDSN(cfg *Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	return ":memory:", nil
}
