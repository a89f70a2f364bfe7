package engine

import (
	"encoding/json"

	"sheetcraft/internal/mcp"
)

// Tools lists the tool surface the server advertises. Schemas are written
// out literally so the wire form stays reviewable in one place.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        toolFetchSheet,
			Description: "Read a spreadsheet tab and return its columns and rows.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string", "description": "Spreadsheet URL or identifier."},
					"tab_name": {"type": "string", "description": "Tab to read."}
				},
				"required": ["sheet_url", "tab_name"]
			}`),
		},
		{
			Name:        toolUpdateSheet,
			Description: "Replace the entire contents of a tab with the supplied columns and rows.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string", "description": "Spreadsheet URL or identifier."},
					"tab_name": {"type": "string", "description": "Tab to overwrite."},
					"data": {
						"type": "object",
						"properties": {
							"columns": {"type": "array", "items": {"type": "string"}},
							"rows": {"type": "array", "items": {"type": "object"}}
						},
						"required": ["columns", "rows"]
					}
				},
				"required": ["sheet_url", "tab_name", "data"]
			}`),
		},
		{
			Name:        toolAddRow,
			Description: "Append one row. Keys that name new columns extend the header.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"row_data": {"type": "object", "description": "Column name to cell value."}
				},
				"required": ["sheet_url", "tab_name", "row_data"]
			}`),
		},
		{
			Name:        toolEditRow,
			Description: "Update every row whose cells match the identifier. Fails if nothing matches.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"row_identifier": {"type": "object", "description": "Column name to value; all pairs must match."},
					"updated_data": {"type": "object", "description": "Column name to new value."}
				},
				"required": ["sheet_url", "tab_name", "row_identifier", "updated_data"]
			}`),
		},
		{
			Name:        toolDeleteRow,
			Description: "Delete every row whose cells match the identifier. Fails if nothing matches.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"row_identifier": {"type": "object", "description": "Column name to value; all pairs must match."}
				},
				"required": ["sheet_url", "tab_name", "row_identifier"]
			}`),
		},
		{
			Name:        toolAddColumn,
			Description: "Add a column computed from existing columns with a formula.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"new_column_name": {"type": "string"},
					"formula": {"type": "string", "enum": ["concat", "sum", "multiply", "subtract", "divide"]},
					"reference_columns": {"type": "array", "items": {"type": "string"}},
					"params": {
						"type": "object",
						"properties": {
							"separator": {"type": "string", "description": "Joiner for concat. Defaults to empty."},
							"prefix": {"type": "string"},
							"suffix": {"type": "string"},
							"operand": {"type": "number", "description": "Constant second operand when only one column is referenced."}
						}
					}
				},
				"required": ["sheet_url", "tab_name", "new_column_name", "formula", "reference_columns"]
			}`),
		},
		{
			Name:        toolRenameColumn,
			Description: "Rename a column header without touching the data.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"old_name": {"type": "string"},
					"new_name": {"type": "string"}
				},
				"required": ["sheet_url", "tab_name", "old_name", "new_name"]
			}`),
		},
		{
			Name:        toolTransformColumn,
			Description: "Rewrite a column in place with a named transformation.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"column_name": {"type": "string"},
					"transformation": {"type": "string", "enum": ["uppercase", "lowercase", "titlecase", "round", "scale", "format_date", "percent_of_total"]},
					"params": {
						"type": "object",
						"properties": {
							"split_on": {"type": "string", "description": "Titlecase only part of each cell after splitting on this."},
							"part_index": {"type": "integer", "description": "Which split part to titlecase; negative counts from the end."},
							"decimals": {"type": "integer"},
							"factor": {"type": "number", "description": "Multiplier for scale."},
							"source_format": {"type": "string", "description": "Go reference layout of the input dates."},
							"target_format": {"type": "string", "description": "Go reference layout to emit. Defaults to 2006-01-02."}
						}
					}
				},
				"required": ["sheet_url", "tab_name", "column_name", "transformation"]
			}`),
		},
		{
			Name:        toolCleanSheet,
			Description: "Fill blank numeric cells with the column mean or median, or drop blank rows.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sheet_url": {"type": "string"},
					"tab_name": {"type": "string"},
					"method": {"type": "string", "enum": ["mean", "median", "drop"]}
				},
				"required": ["sheet_url", "tab_name", "method"]
			}`),
		},
	}
}
