// Package sheets is the Google Sheets backend of the grid store.
package sheets

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"sheetcraft/internal/apperr"
	"sheetcraft/internal/grid"
	"sheetcraft/internal/logging"
)

// Config selects the credential source. Exactly one of CredentialsFile
// (service-account JSON key) or TokenSource (OAuth token pair) is required.
type Config struct {
	CredentialsFile string
	TokenSource     oauth2.TokenSource
}

type Client struct {
	svc    *sheetsapi.Service
	logger *slog.Logger
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.TokenSource != nil:
		opts = append(opts, option.WithTokenSource(cfg.TokenSource))
	default:
		return nil, apperr.Accessf("no Google credentials configured: set a service-account key file or store an OAuth token")
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, err, "cannot initialize sheets service")
	}
	return &Client{svc: svc, logger: logger}, nil
}

func (c *Client) Fetch(ctx context.Context, locator, tab string) (*grid.Grid, error) {
	id, err := SpreadsheetID(locator)
	if err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(id, tabRange(tab)).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, locator, tab)
	}
	if len(resp.Values) == 0 {
		return nil, apperr.Validationf("tab %q has no header row", tab)
	}
	c.logger.Debug("sheets.fetch", "spreadsheet", id, "tab", tab, "rows", len(resp.Values))
	return grid.FromCells(resp.Values)
}

func (c *Client) Replace(ctx context.Context, locator, tab string, g *grid.Grid) error {
	id, err := SpreadsheetID(locator)
	if err != nil {
		return err
	}
	if _, err := c.svc.Spreadsheets.Values.Clear(id, tabRange(tab), &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return classify(err, locator, tab)
	}
	body := &sheetsapi.ValueRange{Values: g.Cells()}
	if _, err := c.svc.Spreadsheets.Values.Update(id, origin(tab), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return classify(err, locator, tab)
	}
	c.logger.Debug("sheets.replace", "spreadsheet", id, "tab", tab, "rows", g.NumRows())
	return nil
}

// tabRange addresses the whole used range of one sheet.
func tabRange(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func origin(tab string) string {
	return tabRange(tab) + "!A1"
}

func classify(err error, locator, tab string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return apperr.Wrap(apperr.CodeNotFound, err, "spreadsheet "+locator+" not found")
		case 400:
			// the values API reports a missing tab as an unparseable range
			return apperr.Wrap(apperr.CodeNotFound, err, "tab "+tab+" not found")
		case 401, 403:
			return apperr.Wrap(apperr.CodeAccess, err, "access denied to spreadsheet "+locator)
		}
	}
	return apperr.Wrap(apperr.CodeUnavailable, err, "sheets api request failed")
}
