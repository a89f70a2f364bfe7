// Package engine implements the sheet tools. Every call is one atomic
// fetch, transform, replace unit: no state survives between calls, and a
// validation failure never issues a partial write.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"sheetcraft/internal/errinfo"
	"sheetcraft/internal/grid"
	"sheetcraft/internal/griddiff"
	"sheetcraft/internal/logging"
	"sheetcraft/internal/mcp"
	"sheetcraft/internal/sheets"
	"sheetcraft/internal/store"
)

const (
	toolFetchSheet      = "fetch_sheet"
	toolUpdateSheet     = "update_sheet"
	toolAddRow          = "add_row"
	toolEditRow         = "edit_row"
	toolDeleteRow       = "delete_row"
	toolAddColumn       = "add_column"
	toolRenameColumn    = "rename_column"
	toolTransformColumn = "transform_column"
	toolCleanSheet      = "clean_sheet"
)

type Engine struct {
	store   store.Store
	logger  *slog.Logger
	allowed map[string]bool
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAllowedLocators restricts which spreadsheets tools may touch. Entries
// may be raw locators or sheet URLs; an empty list means no restriction.
func WithAllowedLocators(locators []string) Option {
	return func(e *Engine) {
		for _, locator := range locators {
			e.allowed[normalizeLocator(locator)] = true
		}
	}
}

func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		logger:  logging.Nop(),
		allowed: map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke dispatches one tool call by name.
func (e *Engine) Invoke(ctx context.Context, tool string, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	switch tool {
	case toolFetchSheet:
		return e.FetchSheet(ctx, params)
	case toolUpdateSheet:
		return e.UpdateSheet(ctx, params)
	case toolAddRow:
		return e.AddRow(ctx, params)
	case toolEditRow:
		return e.EditRow(ctx, params)
	case toolDeleteRow:
		return e.DeleteRow(ctx, params)
	case toolAddColumn:
		return e.AddColumn(ctx, params)
	case toolRenameColumn:
		return e.RenameColumn(ctx, params)
	case toolTransformColumn:
		return e.TransformColumn(ctx, params)
	case toolCleanSheet:
		return e.CleanSheet(ctx, params)
	default:
		return nil, errinfo.InvalidParams(tool, "unknown tool: "+tool)
	}
}

func (e *Engine) checkAllowed(tool, locator string) *errinfo.ErrorInfo {
	if len(e.allowed) == 0 {
		return nil
	}
	if e.allowed[normalizeLocator(locator)] {
		return nil
	}
	return errinfo.AccessDenied(tool, "spreadsheet is not on the configured allowlist")
}

// normalizeLocator collapses URL and raw-id forms of the same spreadsheet.
func normalizeLocator(locator string) string {
	if id, err := sheets.SpreadsheetID(locator); err == nil {
		return id
	}
	return strings.TrimSpace(locator)
}

// mutate runs the shared fetch, transform, replace cycle of every mutating
// tool and reports a change summary.
func (e *Engine) mutate(ctx context.Context, tool, locator, tab string, fn func(*grid.Grid) error) (any, *errinfo.ErrorInfo) {
	if strings.TrimSpace(locator) == "" || strings.TrimSpace(tab) == "" {
		return nil, errinfo.InvalidParams(tool, "sheet_url and tab_name are required")
	}
	if errInfo := e.checkAllowed(tool, locator); errInfo != nil {
		return nil, errInfo
	}
	g, err := e.store.Fetch(ctx, locator, tab)
	if err != nil {
		return nil, errinfo.FromError(tool, err)
	}
	before := g.Clone()
	if err := fn(g); err != nil {
		return nil, errinfo.FromError(tool, err)
	}
	if err := e.store.Replace(ctx, locator, tab, g); err != nil {
		return nil, errinfo.FromError(tool, err)
	}
	summary := griddiff.Compare(before, g)
	e.logger.Info("engine.mutated",
		"tool", tool,
		"call_id", mcp.CallID(ctx),
		"tab", tab,
		"rows_before", summary.RowsBefore,
		"rows_after", summary.RowsAfter,
		"lines_added", summary.LinesAdded,
		"lines_removed", summary.LinesRemoved,
	)
	return map[string]any{
		"success": true,
		"rows":    g.NumRows(),
		"columns": g.NumColumns(),
		"change":  summary,
	}, nil
}
