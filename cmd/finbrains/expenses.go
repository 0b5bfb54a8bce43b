package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/finbrains/finbrains/internal/cli"
	"github.com/finbrains/finbrains/internal/common"
	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/recurrence"
	"github.com/finbrains/finbrains/internal/service"
	"github.com/finbrains/finbrains/internal/tui"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage transactions",
		Long:  `List, add, edit, and delete income and expense transactions.`,
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(editExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())
	return cmd
}

func listExpensesCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			txns, err := backend.Transactions(cmd.Context(), service.TransactionFilter{From: from, To: to})
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Description"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Next due"))
			for _, t := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
					t.Date, t.ResolveCategoryName(), t.Description, t.Amount, t.Kind, nextDueLabel(t))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

// nextDueLabel shows the server's next-due date for a recurring
// transaction, or a provisional one computed locally when the server has
// not assigned it yet.
func nextDueLabel(t model.Transaction) string {
	r := t.Recurrence
	if r == nil || !r.Enabled {
		return ""
	}
	if r.NextDue != "" {
		return r.NextDue
	}
	today := time.Now().Format(recurrence.DateLayout)
	due, err := recurrence.NextDue(r.Frequency, r.StartDate, today, r.IntervalDays)
	if err != nil {
		return ""
	}
	return due + cli.SubtleStyle.Render(" (provisional)")
}

func addExpenseCmd() *cobra.Command {
	var (
		amount       float64
		description  string
		categoryName string
		kind         string
		payment      string
		date         string
		isRecurring  bool
		frequency    string
		startDate    string
		endDate      string
		intervalDays int
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Add a transaction from flags, or interactively with --interactive.
The interactive form suggests a category from the description as you type.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			if interactive {
				categories, err := backend.Categories(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}
				keywords, err := backend.CategoryKeywords(cmd.Context())
				if err != nil {
					// Suggestions are advisory; the form works without them.
					common.LogDebug("keyword fetch failed, suggestions disabled", common.Fields{"error": err})
					keywords = nil
				}

				form := tui.NewForm(backend, newInsight(), categories, keywords)
				final, err := tea.NewProgram(form).Run()
				if err != nil {
					return fmt.Errorf("form failed: %w", err)
				}
				if created := final.(*tui.Form).Created(); created != nil {
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (%.2f)", created.Description, created.Amount)))
				}
				return nil
			}

			txn := model.Transaction{
				Amount:        amount,
				Description:   description,
				Kind:          model.TransactionKind(strings.ToUpper(kind)),
				PaymentMethod: model.PaymentMethod(strings.ToUpper(payment)),
				Date:          date,
			}
			if categoryName != "" {
				categories, err := backend.Categories(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}
				target, err := findCategory(categories, categoryName)
				if err != nil {
					return err
				}
				txn.CategoryID = target.ID
			}
			if isRecurring {
				txn.Recurrence = &model.Recurrence{
					Enabled:      true,
					Frequency:    model.Frequency(strings.ToUpper(frequency)),
					StartDate:    startDate,
					EndDate:      endDate,
					IntervalDays: intervalDays,
				}
			}

			created, err := backend.CreateTransaction(cmd.Context(), txn)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Added %s (%.2f)", created.Description, created.Amount)
			if created.Recurrence != nil && created.Recurrence.NextDue != "" {
				msg += fmt.Sprintf(", next due %s", created.Recurrence.NextDue)
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&categoryName, "category", "", "category name")
	cmd.Flags().StringVar(&kind, "type", string(model.KindExpense), "EXPENSE or INCOME")
	cmd.Flags().StringVar(&payment, "payment", "", "CASH, CARD, UPI, or NET_BANKING")
	cmd.Flags().StringVar(&date, "date", time.Now().Format(recurrence.DateLayout), "transaction date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&isRecurring, "recurring", false, "make this a recurring transaction")
	cmd.Flags().StringVar(&frequency, "frequency", "", "DAILY, WEEKLY, MONTHLY, QUARTERLY, YEARLY, or CUSTOM")
	cmd.Flags().StringVar(&startDate, "start", "", "recurrence start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "recurrence end date (optional)")
	cmd.Flags().IntVar(&intervalDays, "interval-days", 0, "interval in days (required for CUSTOM)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the interactive form")
	return cmd
}

func editExpenseCmd() *cobra.Command {
	var (
		amount      float64
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			txns, err := backend.Transactions(cmd.Context(), service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			var target *model.Transaction
			for i := range txns {
				if txns[i].ID == args[0] {
					target = &txns[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("transaction %q not found", args[0])
			}

			if cmd.Flags().Changed("amount") {
				target.Amount = amount
			}
			if cmd.Flags().Changed("description") {
				target.Description = description
			}
			if cmd.Flags().Changed("date") {
				target.Date = date
			}

			updated, err := backend.UpdateTransaction(cmd.Context(), target.ID, *target)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s", updated.ID)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD)")
	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			if err := backend.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}
