// ABOUTME: Google Sheets implementation of RemoteClient
// ABOUTME: One worksheet per table; every call carries the configured response timeout
package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient talks to one spreadsheet. Worksheet title = table name.
type SheetsClient struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	log           zerolog.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> numeric sheet id
}

// NewSheetsClient opens the spreadsheet using a service-account credentials file.
func NewSheetsClient(ctx context.Context, spreadsheetID, credentialsFile string, timeout time.Duration, log zerolog.Logger) (*SheetsClient, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
		log:           log,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// ReadAll returns the full grid including the header row.
func (c *SheetsClient) ReadAll(ctx context.Context, table string) ([][]string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, classify(fmt.Errorf("read %s: %w", table, err))
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds one row at the end of the table.
func (c *SheetsClient) Append(ctx context.Context, table string, row []string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteRange(table), valueRange(row)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return classify(fmt.Errorf("append to %s: %w", table, err))
	}
	return nil
}

// UpdateAt overwrites the row at the 1-based position.
func (c *SheetsClient) UpdateAt(ctx context.Context, table string, rowIndex int, row []string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	rng := fmt.Sprintf("'%s'!A%d", table, rowIndex)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, valueRange(row)).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return classify(fmt.Errorf("update %s row %d: %w", table, rowIndex, err))
	}
	return nil
}

// DeleteAt removes the row at the 1-based position.
func (c *SheetsClient) DeleteAt(ctx context.Context, table string, rowIndex int) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	sheetID, err := c.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1),
					EndIndex:   int64(rowIndex),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify(fmt.Errorf("delete %s row %d: %w", table, rowIndex, err))
	}
	return nil
}

// EnsureExists creates the worksheet with the header row if it is absent.
func (c *SheetsClient) EnsureExists(ctx context.Context, table string, header []string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	if _, err := c.sheetID(ctx, table); err == nil {
		return nil
	}

	addReq := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: table},
			},
		}},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, addReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: create worksheet %s: %v", ErrSchema, table, err)
	}
	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			c.mu.Lock()
			c.sheetIDs[table] = r.AddSheet.Properties.SheetId
			c.mu.Unlock()
		}
	}

	rng := fmt.Sprintf("'%s'!A1", table)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, valueRange(header)).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write header for %s: %v", ErrSchema, table, err)
	}
	c.log.Info().Str("table", table).Msg("created worksheet")
	return nil
}

// sheetID resolves a worksheet title to its numeric id, caching results.
func (c *SheetsClient) sheetID(ctx context.Context, table string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[table]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, classify(fmt.Errorf("get spreadsheet metadata: %w", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	if id, ok := c.sheetIDs[table]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: worksheet %s not found", ErrSchema, table)
}

func (c *SheetsClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func valueRange(row []string) *sheets.ValueRange {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &sheets.ValueRange{Values: [][]interface{}{cells}}
}

func quoteRange(table string) string {
	return "'" + table + "'"
}

// classify marks rate limits, server errors and timeouts as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient(err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429, 500, 502, 503, 504:
			return Transient(err)
		}
	}
	return err
}
