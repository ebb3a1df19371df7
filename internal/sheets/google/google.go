package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"lexia/internal/core"
	ports "lexia/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client mirrors ledger records into one sheet, one row per record, keyed
// by the record id in column A.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ ports.RowExporter = (*Client)(nil)

// Options configures New. CredentialsJSON wins over CredentialsFile.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = "ledger"
	}

	creds, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "sheet", sheet)

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

func loadCredentials(opts Options) ([]byte, error) {
	if js := strings.TrimSpace(opts.CredentialsJSON); js != "" {
		return []byte(js), nil
	}
	if path := strings.TrimSpace(opts.CredentialsFile); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// AppendRecord writes r to its existing row when the id is already present,
// otherwise to the first row after the data. Redelivered sync messages
// therefore overwrite instead of duplicating.
func (c *Client) AppendRecord(ctx context.Context, r core.LedgerRecord) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return "", err
	}
	row := findRow(ids, r.ID)
	if row == 0 {
		row = len(ids) + 1
		if row == 1 {
			// Empty sheet: write the header first.
			if err := c.writeRow(ctx, 1, headerRow()); err != nil {
				return "", err
			}
			row = 2
		}
	}

	if err := c.writeRow(ctx, row, recordRow(r)); err != nil {
		return "", err
	}
	return rowRange(c.sheet, row), nil
}

// DeleteRecordRow clears the row holding id. Missing ids are not an error.
func (c *Client) DeleteRecordRow(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return err
	}
	row := findRow(ids, id)
	if row == 0 {
		return nil
	}
	rng := rowRange(c.sheet, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

func (c *Client) readIDColumn(ctx context.Context) ([][]any, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) writeRow(ctx context.Context, row int, values []any) error {
	rng := rowRange(c.sheet, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}
