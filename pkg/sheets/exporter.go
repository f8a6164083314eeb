package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrNotConfigured = errors.New("google sheets export is not configured")

type StatusSource interface {
	Status(ctx context.Context, txType transaction.Type) (budget.Evaluation, error)
}

// Exporter writes the current month's budget statuses to a spreadsheet.
type Exporter struct {
	service       *sheets.Service
	spreadsheetId string
	writeRange    string
	budgets       StatusSource
}

// NewSheetsService builds an API client authenticated with the configured
// refresh token. Extra options are appended, so tests can point it elsewhere.
func NewSheetsService(ctx context.Context, cfg config.Sheets, opts ...option.ClientOption) (*sheets.Service, error) {
	if len(opts) == 0 {
		if cfg.RefreshToken == "" || cfg.ClientId == "" {
			return nil, ErrNotConfigured
		}
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{RefreshToken: cfg.RefreshToken, TokenType: "Bearer"}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		err := fmt.Errorf("unable to create sheets client: %w", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}

func NewExporter(service *sheets.Service, cfg config.Sheets, budgets StatusSource) (*Exporter, error) {
	if cfg.SpreadsheetId == "" {
		return nil, ErrNotConfigured
	}
	return &Exporter{
		service:       service,
		spreadsheetId: cfg.SpreadsheetId,
		writeRange:    cfg.Range,
		budgets:       budgets,
	}, nil
}

// Export replaces the configured range with a header row followed by one row
// per expense and income budget. It returns the number of rows written.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	values := [][]any{{"Type", "Category", "Planned", "Actual", "Percentage", "State"}}
	for _, txType := range []transaction.Type{transaction.Expense, transaction.Income} {
		evaluation, err := e.budgets.Status(ctx, txType)
		if err != nil {
			return 0, fmt.Errorf("could not evaluate %s budgets: %w", txType, err)
		}
		values = append(values, Rows(evaluation)...)
	}

	resp, err := e.service.Spreadsheets.Values.Update(e.spreadsheetId, e.writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("failed to write budgets to spreadsheet: %w", err)
		log.Error(err)
		return 0, err
	}
	log.Infof("Exported %d rows to spreadsheet %s", resp.UpdatedRows, e.spreadsheetId)
	return int(resp.UpdatedRows), nil
}

// Rows turns an evaluation into spreadsheet rows, ending with a totals row.
func Rows(evaluation budget.Evaluation) [][]any {
	rows := make([][]any, 0, len(evaluation.Statuses)+1)
	for _, s := range evaluation.Statuses {
		rows = append(rows, []any{
			string(evaluation.Type), s.Budget.Category, s.Budget.PlannedAmount, s.Actual, s.PercentageRaw, string(s.State),
		})
	}
	if len(evaluation.Statuses) > 0 {
		rows = append(rows, []any{
			string(evaluation.Type), "Total", evaluation.TotalPlanned, evaluation.TotalActual, evaluation.TotalPercentage, string(evaluation.State),
		})
	}
	return rows
}
