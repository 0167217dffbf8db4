package external

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetWindow is the cell range read from every sheet of a spreadsheet.
const SheetWindow = "A1:Z50"

// SheetsReader fetches a read-only snapshot of a spreadsheet.
type SheetsReader interface {
	Snapshot(ctx context.Context, spreadsheetID string) (*Spreadsheet, error)
}

// Spreadsheet is the snapshot handed to the model and to /sheets callers.
type Spreadsheet struct {
	Title  string  `json:"title"`
	Sheets []Sheet `json:"sheets"`
}

// Sheet holds the visible window of one tab.
type Sheet struct {
	Name   string     `json:"name"`
	Values [][]string `json:"values,omitempty"`
}

// ErrSheetsNotConfigured is returned when no service-account credentials are set.
var ErrSheetsNotConfigured = errors.New("google sheets credentials not configured")

// GoogleSheetsClient implements SheetsReader with a service account.
type GoogleSheetsClient struct {
	clientEmail string
	privateKey  string
}

// NewGoogleSheetsClient creates a client from service-account credentials.
// Literal "\n" sequences in the key (as stored in env files) are unescaped.
func NewGoogleSheetsClient(clientEmail, privateKey string) *GoogleSheetsClient {
	return &GoogleSheetsClient{
		clientEmail: clientEmail,
		privateKey:  strings.ReplaceAll(privateKey, `\n`, "\n"),
	}
}

func (c *GoogleSheetsClient) service(ctx context.Context) (*sheets.Service, error) {
	if c.clientEmail == "" || c.privateKey == "" {
		return nil, ErrSheetsNotConfigured
	}
	conf := &jwt.Config{
		Email:      c.clientEmail,
		PrivateKey: []byte(c.privateKey),
		Scopes:     []string{sheets.SpreadsheetsReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return srv, nil
}

// Snapshot implements SheetsReader. It reads the spreadsheet title and sheet
// names, then batch-reads SheetWindow from every sheet.
func (c *GoogleSheetsClient) Snapshot(ctx context.Context, spreadsheetID string) (*Spreadsheet, error) {
	srv, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	meta, err := srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	title := "Untitled Sheet"
	if meta.Properties != nil && meta.Properties.Title != "" {
		title = meta.Properties.Title
	}

	var names []string
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title != "" {
			names = append(names, s.Properties.Title)
		}
	}

	snapshot := &Spreadsheet{Title: title, Sheets: []Sheet{}}
	if len(names) == 0 {
		return snapshot, nil
	}

	ranges := make([]string, len(names))
	for i, name := range names {
		ranges[i] = name + "!" + SheetWindow
	}

	resp, err := srv.Spreadsheets.Values.BatchGet(spreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet values: %w", err)
	}

	for i, vr := range resp.ValueRanges {
		if i >= len(names) {
			break
		}
		snapshot.Sheets = append(snapshot.Sheets, Sheet{
			Name:   names[i],
			Values: stringifyRows(vr.Values),
		})
	}
	return snapshot, nil
}

func stringifyRows(rows [][]interface{}) [][]string {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out
}
