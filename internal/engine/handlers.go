package engine

import (
	"context"
	"encoding/json"
	"strings"

	"sheetcraft/internal/errinfo"
	"sheetcraft/internal/grid"
	"sheetcraft/internal/mcp"
)

type sheetRef struct {
	SheetURL string `json:"sheet_url"`
	TabName  string `json:"tab_name"`
}

// FetchSheet returns the tab as a column-ordered document.
func (e *Engine) FetchSheet(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req sheetRef
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolFetchSheet, "invalid params: "+err.Error())
	}
	if strings.TrimSpace(req.SheetURL) == "" || strings.TrimSpace(req.TabName) == "" {
		return nil, errinfo.InvalidParams(toolFetchSheet, "sheet_url and tab_name are required")
	}
	if errInfo := e.checkAllowed(toolFetchSheet, req.SheetURL); errInfo != nil {
		return nil, errInfo
	}
	g, err := e.store.Fetch(ctx, req.SheetURL, req.TabName)
	if err != nil {
		return nil, errinfo.FromError(toolFetchSheet, err)
	}
	e.logger.Info("engine.fetched",
		"tool", toolFetchSheet,
		"call_id", mcp.CallID(ctx),
		"tab", req.TabName,
		"rows", g.NumRows(),
		"columns", g.NumColumns(),
	)
	return g.Document(), nil
}

// UpdateSheet replaces the whole tab with the supplied document.
func (e *Engine) UpdateSheet(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		Data grid.Document `json:"data"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolUpdateSheet, "invalid params: "+err.Error())
	}
	if strings.TrimSpace(req.SheetURL) == "" || strings.TrimSpace(req.TabName) == "" {
		return nil, errinfo.InvalidParams(toolUpdateSheet, "sheet_url and tab_name are required")
	}
	if errInfo := e.checkAllowed(toolUpdateSheet, req.SheetURL); errInfo != nil {
		return nil, errInfo
	}
	g, err := grid.FromDocument(req.Data)
	if err != nil {
		return nil, errinfo.FromError(toolUpdateSheet, err)
	}
	if err := e.store.Replace(ctx, req.SheetURL, req.TabName, g); err != nil {
		return nil, errinfo.FromError(toolUpdateSheet, err)
	}
	e.logger.Info("engine.replaced",
		"tool", toolUpdateSheet,
		"call_id", mcp.CallID(ctx),
		"tab", req.TabName,
		"rows", g.NumRows(),
		"columns", g.NumColumns(),
	)
	return map[string]any{
		"success": true,
		"rows":    g.NumRows(),
		"columns": g.NumColumns(),
	}, nil
}

func (e *Engine) AddRow(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		RowData map[string]grid.Value `json:"row_data"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolAddRow, "invalid params: "+err.Error())
	}
	return e.mutate(ctx, toolAddRow, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		return g.AddRow(req.RowData)
	})
}

func (e *Engine) EditRow(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		RowIdentifier map[string]grid.Value `json:"row_identifier"`
		UpdatedData   map[string]grid.Value `json:"updated_data"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolEditRow, "invalid params: "+err.Error())
	}
	matched := 0
	result, errInfo := e.mutate(ctx, toolEditRow, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		n, err := g.EditRow(req.RowIdentifier, req.UpdatedData)
		matched = n
		return err
	})
	return withMatched(result, matched), errInfo
}

func (e *Engine) DeleteRow(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		RowIdentifier map[string]grid.Value `json:"row_identifier"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolDeleteRow, "invalid params: "+err.Error())
	}
	matched := 0
	result, errInfo := e.mutate(ctx, toolDeleteRow, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		n, err := g.DeleteRow(req.RowIdentifier)
		matched = n
		return err
	})
	return withMatched(result, matched), errInfo
}

func (e *Engine) AddColumn(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		NewColumnName    string             `json:"new_column_name"`
		Formula          string             `json:"formula"`
		ReferenceColumns []string           `json:"reference_columns"`
		Params           grid.FormulaParams `json:"params"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolAddColumn, "invalid params: "+err.Error())
	}
	formula, err := grid.ParseFormula(req.Formula)
	if err != nil {
		return nil, errinfo.FromError(toolAddColumn, err)
	}
	return e.mutate(ctx, toolAddColumn, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		return g.AddColumn(req.NewColumnName, formula, req.ReferenceColumns, req.Params)
	})
}

func (e *Engine) RenameColumn(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		OldName string `json:"old_name"`
		NewName string `json:"new_name"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolRenameColumn, "invalid params: "+err.Error())
	}
	return e.mutate(ctx, toolRenameColumn, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		return g.RenameColumn(req.OldName, req.NewName)
	})
}

func (e *Engine) TransformColumn(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		ColumnName     string               `json:"column_name"`
		Transformation string               `json:"transformation"`
		Params         grid.TransformParams `json:"params"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolTransformColumn, "invalid params: "+err.Error())
	}
	tr, err := grid.ParseTransformation(req.Transformation)
	if err != nil {
		return nil, errinfo.FromError(toolTransformColumn, err)
	}
	return e.mutate(ctx, toolTransformColumn, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		return g.TransformColumn(req.ColumnName, tr, req.Params)
	})
}

func (e *Engine) CleanSheet(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		sheetRef
		Method string `json:"method"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.InvalidParams(toolCleanSheet, "invalid params: "+err.Error())
	}
	method, err := grid.ParseCleanMethod(req.Method)
	if err != nil {
		return nil, errinfo.FromError(toolCleanSheet, err)
	}
	affected := 0
	result, errInfo := e.mutate(ctx, toolCleanSheet, req.SheetURL, req.TabName, func(g *grid.Grid) error {
		n, err := g.Clean(method)
		affected = n
		return err
	})
	if errInfo != nil {
		return nil, errInfo
	}
	if m, ok := result.(map[string]any); ok {
		m["cells_affected"] = affected
	}
	return result, nil
}

func withMatched(result any, matched int) any {
	if m, ok := result.(map[string]any); ok {
		m["matched"] = matched
	}
	return result
}
