package main

import (
	"log/slog"

	"github.com/avwilde/keyfob"
	"github.com/avwilde/keyfob/internal/audit"
	"github.com/avwilde/keyfob/internal/config"
)

// loadConfig reads ~/.keyfob/config.yaml, falling back to an empty config
// rather than failing the command.
func loadConfig() *config.Config {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		slog.Warn("ignoring unreadable config", "path", config.DefaultPath(), "error", err)
		return &config.Config{}
	}
	return cfg
}

// openStore builds the store the commands operate on: the system Keychain,
// wrapped with audit logging when the config asks for it.
func openStore(cfg *config.Config) keyfob.Keeper {
	store := keyfob.New()
	if cfg.AuditLog == "" {
		return store
	}

	auditLog, err := audit.NewLogger(cfg.AuditLog)
	if err != nil {
		slog.Warn("audit log disabled", "path", cfg.AuditLog, "error", err)
		return store
	}
	return keyfob.NewAuditedStore(store, auditLog, "cli")
}
