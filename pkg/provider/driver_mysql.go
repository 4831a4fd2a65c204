package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Mihail-K/Dart/pkg/query"
	_ "github.com/go-sql-driver/mysql" // mysql driver
)

func init() {
	RegisterDriver("mysql", Driver{
		SQLName: "mysql",
		Dialect: query.MySQL,
		DSN:     mysqlDSN,
	})
}

func mysqlDSN(cfg *Config) (string, error) {
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
		port = 3306
	}

	var sb strings.Builder
	if cfg.Username != "" {
		sb.WriteString(cfg.Username)
		if cfg.Password != "" {
			sb.WriteByte(':')
			sb.WriteString(cfg.Password)
		}
		sb.WriteByte('@')
	}
	fmt.Fprintf(&sb, "tcp(%s:%d)/%s", host, port, cfg.Database)

	if len(cfg.Options) > 0 {
		keys := make([]string, 0, len(cfg.Options))
		for k := range cfg.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				sb.WriteByte('?')
			} else {
				sb.WriteByte('&')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(cfg.Options[k])
		}
	}
	return sb.String(), nil
}
