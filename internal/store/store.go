// Package store defines the grid access layer: fetch a tab's full contents,
// write a full grid back. Writes are whole-grid replacement, so every edit
// round-trips the entire tab. Concurrent writers against the same tab are
// not coordinated; the last replace wins at the store boundary.
package store

import (
	"context"

	"sheetcraft/internal/grid"
)

type Store interface {
	// Fetch materializes the tab's full contents as a fresh grid.
	Fetch(ctx context.Context, locator, tab string) (*grid.Grid, error)
	// Replace overwrites the tab's full contents with g, row-major from the
	// origin cell. It either fully succeeds or leaves the tab untouched.
	Replace(ctx context.Context, locator, tab string, g *grid.Grid) error
}
