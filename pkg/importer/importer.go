package importer

import (
	"context"
	"io"

	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type TransactionCreator interface {
	Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error)
}

type Result struct {
	Imported int
	Failed   int
}

// Progress is told how many lines were handled out of total.
type Progress func(done, total int)

type Importer struct {
	parser       *Parser
	transactions TransactionCreator
}

func NewImporter(transactions TransactionCreator) *Importer {
	return &Importer{parser: NewParser(), transactions: transactions}
}

// Import parses reader and stores every transaction it holds. A line that
// cannot be stored is counted as failed and does not stop the import.
func (i *Importer) Import(ctx context.Context, reader io.Reader, progress Progress) (Result, error) {
	parsed, err := i.parser.Parse(ctx, reader)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for n, t := range parsed {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := i.transactions.Create(ctx, t); err != nil {
			log.Warnf("could not import %s %q of %s: %v", t.Type, t.Description, t.Date.Format(transaction.DateLayout), err)
			result.Failed++
		} else {
			result.Imported++
		}
		if progress != nil {
			progress(n+1, len(parsed))
		}
	}
	return result, nil
}
