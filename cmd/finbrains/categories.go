package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbrains/finbrains/internal/cli"
	"github.com/finbrains/finbrains/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, and delete the categories transactions are assigned to.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			categories, err := backend.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No categories found. Use 'finbrains categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Keywords"),
				cli.BoldStyle.Render(""))
			for _, cat := range categories {
				flag := ""
				if cat.Protected() {
					flag = cli.SubtleStyle.Render("(predefined)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Name, strings.Join(cat.Keywords, ", "), flag)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			created, err := backend.CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q", created.Name)))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  `Delete a category by name. Predefined categories cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}

			categories, err := backend.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			target, err := findCategory(categories, args[0])
			if err != nil {
				return err
			}

			if err := backend.DeleteCategory(cmd.Context(), *target); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", target.Name)))
			return nil
		},
	}
}

func findCategory(categories []model.Category, name string) (*model.Category, error) {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q not found", name)
}
