package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

var incomeCategories = map[string]string{
	"INT":       "Interest",
	"DIV":       "Dividends",
	"DIRECTDEP": "Salary",
	"DEP":       "Deposits",
}

var expenseCategories = map[string]string{
	"FEE":     "Bank fees",
	"SRVCHG":  "Bank fees",
	"ATM":     "Cash",
	"CASH":    "Cash",
	"CHECK":   "Checks",
	"PAYMENT": "Bills",
}

const fallbackCategory = "Other"

// Parser reads OFX and QFX bank or credit card statements.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse converts every statement line into a transaction. Debits become
// expenses and credits become incomes; zero amount lines are skipped.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]transaction.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(strings.TrimLeft(string(content), " \t\r\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var lines []ofxgo.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, stmt.BankTranList.Transactions...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, stmt.BankTranList.Transactions...)
		}
	}

	transactions := make([]transaction.Transaction, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, ok := convert(line)
		if !ok {
			log.Debugf("skipping OFX line %s with zero amount", line.FiTID)
			continue
		}
		transactions = append(transactions, t)
	}
	log.Infof("Parsed %d transactions from %d OFX lines", len(transactions), len(lines))
	return transactions, nil
}

func convert(line ofxgo.Transaction) (transaction.Transaction, bool) {
	amount, _ := line.TrnAmt.Float64()
	if amount == 0 {
		return transaction.Transaction{}, false
	}

	trnType := strings.ToUpper(line.TrnType.String())
	t := transaction.Transaction{
		Description: description(line),
		Date:        calendarDate(line.DtPosted.Time),
	}
	if amount < 0 {
		t.Type = transaction.Expense
		t.Amount = -amount
		t.Category = categoryFor(expenseCategories, trnType)
	} else {
		t.Type = transaction.Income
		t.Amount = amount
		t.Category = categoryFor(incomeCategories, trnType)
	}
	return t, true
}

func categoryFor(categories map[string]string, trnType string) string {
	if c, ok := categories[trnType]; ok {
		return c
	}
	return fallbackCategory
}

func description(line ofxgo.Transaction) string {
	if line.Payee != nil && line.Payee.Name != "" {
		return strings.TrimSpace(string(line.Payee.Name))
	}
	if line.Name != "" {
		return strings.TrimSpace(string(line.Name))
	}
	return strings.TrimSpace(string(line.Memo))
}

// calendarDate keeps the posted day as a UTC calendar date.
func calendarDate(posted time.Time) time.Time {
	if posted.IsZero() {
		return time.Time{}
	}
	y, m, d := posted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
