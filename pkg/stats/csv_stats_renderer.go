package stats

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one row per type total, one per category share and one per
// budget status, followed by the balance.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	data := [][]string{{"Section", "Type", "Category", "Amount", "Percentage", "State"}}

	for _, typeStats := range stats.Types {
		data = append(data, []string{"Total", string(typeStats.Type), "", amountToString(typeStats.Total), "", ""})
	}
	for _, typeStats := range stats.Types {
		for _, share := range typeStats.Breakdown {
			data = append(data, []string{
				"Category", string(typeStats.Type), share.Category,
				amountToString(share.Amount), amountToString(share.Percentage), "",
			})
		}
	}
	for _, evaluation := range stats.Budgets {
		for _, status := range evaluation.Statuses {
			data = append(data, []string{
				"Budget", string(evaluation.Type), status.Budget.Category,
				amountToString(status.Actual), amountToString(status.PercentageRaw), string(status.State),
			})
		}
	}
	data = append(data, []string{"Balance", "", "", amountToString(stats.Balance), "", ""})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func amountToString(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
