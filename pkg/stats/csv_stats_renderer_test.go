package stats

import (
	"testing"

	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStatsRendererImpl_RenderStats(t1 *testing.T) {
	type args struct {
		stats StatsSummary
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "RenderStats with valid data",
			args: args{
				stats: StatsSummary{
					Period: "2024-03",
					Types: []TypeStats{
						{Type: transaction.Expense, Total: 300, Count: 2, Breakdown: []category.Share{
							{Category: "Food", Amount: 200, Percentage: 66.666666},
							{Category: "Fuel, car", Amount: 100, Percentage: 33.333333},
						}},
						{Type: transaction.Income, Total: 1000.5, Count: 1},
					},
					Budgets: []budget.Evaluation{{
						Type: transaction.Expense,
						Statuses: []budget.Status{{
							Budget:        budget.Budget{Category: "Food", PlannedAmount: 400},
							Actual:        200,
							PercentageRaw: 50,
							State:         budget.StateGood,
						}},
					}},
					Balance: 700.5,
				},
			},
			want: "Section,Type,Category,Amount,Percentage,State\n" +
				"Total,expense,,300.00,,\n" +
				"Total,income,,1000.50,,\n" +
				"Category,expense,Food,200.00,66.67,\n" +
				"Category,expense,\"Fuel, car\",100.00,33.33,\n" +
				"Budget,expense,Food,200.00,50.00,good\n" +
				"Balance,,,700.50,,\n",
		},
		{
			name: "RenderStats with empty summary",
			args: args{stats: StatsSummary{}},
			want: "Section,Type,Category,Amount,Percentage,State\n" +
				"Balance,,,0.00,,\n",
		},
	}
	for _, tt := range tests {
		t1.Run(tt.name, func(t1 *testing.T) {
			t := NewCsvStatsRenderer()
			got, err := t.RenderStats(tt.args.stats)
			require.NoError(t1, err)
			assert.Equal(t1, tt.want, got)
		})
	}
}
