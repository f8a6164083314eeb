package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/currency"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	stateColors = map[budget.Color]lipgloss.Color{
		budget.Green:  lipgloss.Color("#4ECDC4"),
		budget.Amber:  lipgloss.Color("#FFE66D"),
		budget.Orange: lipgloss.Color("#FFA94D"),
		budget.Cyan:   lipgloss.Color("#66D9EF"),
		budget.Red:    lipgloss.Color("#FF6B6B"),
	}
)

const (
	categoryWidth = 20
	amountWidth   = 14
	stateWidth    = 10
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print this month's budget statuses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, _, closeStores, err := openDependencies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()

			current := deps.SettingsService.Current()
			formatter, err := current.Formatter()
			if err != nil {
				return err
			}
			var evaluations []budget.Evaluation
			for _, txType := range []transaction.Type{transaction.Expense, transaction.Income} {
				evaluation, err := deps.BudgetService.Status(cmd.Context(), txType)
				if err != nil {
					return err
				}
				evaluations = append(evaluations, evaluation)
			}
			return renderReport(cmd.OutOrStdout(), evaluations, formatter)
		},
	}
}

func renderReport(w io.Writer, evaluations []budget.Evaluation, f currency.Formatter) error {
	var b strings.Builder
	for _, evaluation := range evaluations {
		b.WriteString(titleStyle.Render(strings.ToUpper(string(evaluation.Type))+" BUDGETS") + "\n")
		if len(evaluation.Statuses) == 0 {
			b.WriteString(subtleStyle.Render("no active budgets") + "\n")
			continue
		}
		b.WriteString(row(headerStyle, "Category", "Planned", "Actual", "Used", "State") + "\n")
		for _, s := range evaluation.Statuses {
			style := lipgloss.NewStyle().Foreground(stateColors[s.Color])
			b.WriteString(row(style, s.Budget.Category, f.Format(s.Budget.PlannedAmount), f.Format(s.Actual),
				f.Percent(s.PercentageRaw), string(s.State)) + "\n")
		}
		total := lipgloss.NewStyle().Bold(true).Foreground(stateColors[evaluation.Color])
		b.WriteString(row(total, "Total", f.Format(evaluation.TotalPlanned), f.Format(evaluation.TotalActual),
			f.Percent(evaluation.TotalPercentage), string(evaluation.State)) + "\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}

func row(style lipgloss.Style, category, planned, actual, used, state string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Width(categoryWidth).Render(truncate(category, categoryWidth-1)),
		style.Width(amountWidth).Align(lipgloss.Right).Render(planned),
		style.Width(amountWidth).Align(lipgloss.Right).Render(actual),
		style.Width(amountWidth-4).Align(lipgloss.Right).Render(used),
		"  ",
		style.Width(stateWidth).Render(state),
	)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
