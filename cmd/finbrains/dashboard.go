package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finbrains/finbrains/internal/api"
	"github.com/finbrains/finbrains/internal/budget"
	"github.com/finbrains/finbrains/internal/cli"
	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/report"
	"github.com/finbrains/finbrains/internal/service"
)

const trendMonths = 6

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the spending overview",
		Long: `Show the monthly trend, top spending categories, recent transactions,
and the current month's budget consumption in one view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			data, err := fetchDashboard(cmd.Context(), backend)
			if err != nil {
				return err
			}

			renderDashboard(data)
			return nil
		},
	}
}

type dashboardData struct {
	month  string
	txns   []model.Transaction
	status *model.BudgetStatus
	income float64
}

// fetchDashboard pulls everything the overview needs from the backend,
// showing fetch progress on stderr so the rendered dashboard stays clean.
func fetchDashboard(ctx context.Context, backend *api.Client) (*dashboardData, error) {
	data := &dashboardData{month: currentMonth()}

	bar := progressbar.NewOptions(3,
		progressbar.OptionSetDescription("Loading dashboard..."),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	from := monthsBefore(data.month, trendMonths-1) + "-01"
	txns, err := backend.Transactions(ctx, service.TransactionFilter{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	data.txns = txns
	_ = bar.Add(1)

	status, err := backend.BudgetStatus(ctx, data.month)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget status: %w", err)
	}
	data.status = status
	_ = bar.Add(1)

	income, err := backend.MonthlyIncome(ctx, data.month)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly income: %w", err)
	}
	data.income = income
	_ = bar.Add(1)
	_ = bar.Finish()

	return data, nil
}

func renderDashboard(data *dashboardData) {
	var expenses []model.Transaction
	for _, t := range data.txns {
		if t.IsExpense() {
			expenses = append(expenses, t)
		}
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Dashboard, %s", data.month)))

	// Derive the month status from the same transactions shown below, so the
	// overview always agrees with itself. The backend supplies the budget.
	var monthTxns []model.Transaction
	for _, t := range data.txns {
		if strings.HasPrefix(t.Date, data.month) {
			monthTxns = append(monthTxns, t)
		}
	}
	status := budget.Evaluate(data.month, data.status.Budget, monthTxns)

	var monthCount int
	for _, t := range monthTxns {
		if t.IsExpense() {
			monthCount++
		}
	}
	var average float64
	if monthCount > 0 {
		average = status.Spent / float64(monthCount)
	}

	fmt.Println(cli.BoldStyle.Render("This month"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Income:\t%.2f\n", data.income)
	fmt.Fprintf(w, "Spent:\t%.2f\n", status.Spent)
	fmt.Fprintf(w, "Budget:\t%.2f\n", status.Budget)
	fmt.Fprintf(w, "Expenses:\t%d\n", monthCount)
	fmt.Fprintf(w, "Average:\t%.2f\n", average)
	_ = w.Flush()
	fmt.Println(cli.RenderBudgetBar(status.Percentage, 30))

	var notifier budget.Notifier
	if msg, ok := notifier.Overage(status); ok {
		fmt.Println(cli.FormatWarning(msg))
	}
	fmt.Println()

	fmt.Println(cli.BoldStyle.Render("Spending trend"))
	trend := report.MonthlyTrend(expenses)
	if len(trend) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No spending yet."))
	} else {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, p := range trend {
			fmt.Fprintf(w, "%s\t%.2f\n", p.Month, p.Amount)
		}
		_ = w.Flush()
	}
	fmt.Println()

	fmt.Println(cli.BoldStyle.Render("Top categories"))
	top := report.TopCategories(expenses, 3)
	if len(top) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No spending yet."))
	} else {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, item := range top {
			fmt.Fprintf(w, "%s\t%.2f\n", item.Name, item.Amount)
		}
		_ = w.Flush()
	}
	fmt.Println()

	fmt.Println(cli.BoldStyle.Render("Recent transactions"))
	recent := report.Recent(data.txns, 5)
	if len(recent) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No transactions yet."))
	} else {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, t := range recent {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", t.Date, t.ResolveCategoryName(), t.Description, t.Amount)
		}
		_ = w.Flush()
	}
}
