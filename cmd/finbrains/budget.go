package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbrains/finbrains/internal/api"
	"github.com/finbrains/finbrains/internal/budget"
	"github.com/finbrains/finbrains/internal/cli"
	"github.com/finbrains/finbrains/internal/common"
	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/report"
	"github.com/finbrains/finbrains/internal/service"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly budget",
		Long:  `Set the monthly spending limit and inspect how much of it is consumed.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(budgetBreakdownCmd())
	cmd.AddCommand(budgetHistoryCmd())
	return cmd
}

func setBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the budget for the current month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount < 0 {
				return fmt.Errorf("invalid budget amount %q", args[0])
			}

			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			if err := backend.SetBudget(cmd.Context(), amount); err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget set to %.2f for %s", amount, currentMonth())))
			return nil
		},
	}
}

func budgetStatusCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget consumption for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			if month == "" {
				month = currentMonth()
			}

			status, err := backend.BudgetStatus(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("failed to get budget status: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budget for %s", month)))
			fmt.Println(cli.RenderBudgetBar(status.Percentage, 30))
			fmt.Println()

			band := budget.Classify(status.Percentage)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Budget:\t%.2f\n", status.Budget)
			fmt.Fprintf(w, "Spent:\t%.2f\n", status.Spent)
			fmt.Fprintf(w, "Remaining:\t%.2f\n", status.Remaining)
			fmt.Fprintf(w, "Status:\t%s\n", cli.BandStyle(band).Render(band.String()))
			if err := w.Flush(); err != nil {
				return err
			}

			var notifier budget.Notifier
			if msg, ok := notifier.Overage(*status); ok {
				fmt.Println()
				fmt.Println(cli.FormatWarning(msg))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to inspect (YYYY-MM, default current)")
	return cmd
}

func budgetBreakdownCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show per-category spending for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			if month == "" {
				month = currentMonth()
			}

			breakdown, err := backend.BudgetBreakdown(cmd.Context(), month)
			if errors.Is(err, common.ErrNotFound) {
				// Older backends have no breakdown endpoint; derive it from
				// the month's transactions instead.
				breakdown, err = localBreakdown(cmd.Context(), backend, month)
			}
			if err != nil {
				return fmt.Errorf("failed to get breakdown: %w", err)
			}

			if len(breakdown.Items) == 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No spending recorded for %s.", month)))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Spending by category, %s", month)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Share"))
			for _, item := range breakdown.Items {
				fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\n", item.Name, item.Amount, item.Percent)
			}
			fmt.Fprintf(w, "%s\t%.2f\t\n", cli.BoldStyle.Render("Total"), breakdown.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to inspect (YYYY-MM, default current)")
	return cmd
}

// localBreakdown derives the per-category split from the month's expense
// transactions.
func localBreakdown(ctx context.Context, backend *api.Client, month string) (*service.BreakdownResponse, error) {
	txns, err := backend.Transactions(ctx, service.TransactionFilter{
		From: month + "-01",
		To:   monthEnd(month),
	})
	if err != nil {
		return nil, err
	}

	var expenses []model.Transaction
	for _, t := range txns {
		if t.IsExpense() {
			expenses = append(expenses, t)
		}
	}

	b := report.CategoryBreakdown(expenses, month)
	out := &service.BreakdownResponse{Total: b.Total, Items: make([]service.BreakdownItem, len(b.Items))}
	for i, item := range b.Items {
		out.Items[i] = service.BreakdownItem{Name: item.Name, Amount: item.Amount, Percent: item.Percent}
	}
	return out, nil
}

func budgetHistoryCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show budget vs spend over recent months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			to := currentMonth()
			from := monthsBefore(to, months-1)

			points, err := backend.BudgetHistory(cmd.Context(), from, to)
			if err != nil {
				return fmt.Errorf("failed to get budget history: %w", err)
			}
			points = report.NormalizeHistory(points)

			if len(points) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No budget history yet."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Budget history"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Month"),
				cli.BoldStyle.Render("Budget"),
				cli.BoldStyle.Render("Spent"),
				cli.BoldStyle.Render("Used"))
			for _, p := range points {
				var pct float64
				if p.Budget > 0 {
					pct = p.Spent / p.Budget * 100
				}
				band := budget.Classify(pct)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n",
					p.MonthKey, p.Budget, p.Spent,
					cli.BandStyle(band).Render(fmt.Sprintf("%.0f%%", budget.DisplayPercentage(pct))))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of months to include")
	return cmd
}
