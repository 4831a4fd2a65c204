package provider

import (
	"fmt"
	"net/url"

	"github.com/Mihail-K/Dart/pkg/query"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func init() {
	RegisterDriver("postgres", Driver{
		SQLName: "pgx",
		Dialect: query.Postgres,
		DSN:     postgresDSN,
	})
}

func postgresDSN(cfg *Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("database name not specified")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + cfg.Database,
	}
	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}
	if len(cfg.Options) > 0 {
		q := u.Query()
		for k, v := range cfg.Options {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
