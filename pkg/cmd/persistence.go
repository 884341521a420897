// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/persistence/memory"
	"github.com/arthadana/alur/pkg/persistence/postgresql"
)

// NewPersistence builds the storage backend from the database URL scheme:
// postgres:// (and postgresql://) for production, memory:// for local runs.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresql.NewStore(ctx, logger, databaseURL)
	default:
		return memory.NewStore(), nil
	}
}
