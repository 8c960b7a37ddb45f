package main

import (
	"fmt"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryCreate,
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename CATEGORY NEW-NAME",
	Short: "Rename a category",
	Long:  "Rename a category. CATEGORY is an exact name or an id prefix.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryRename,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete CATEGORY",
	Short: "Delete a category",
	Long:  "Delete a category. Templates, tasks, goals and events that referenced it become uncategorized.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryDelete,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var (
	categoryCreateColor string
	categoryListJSON    bool
)

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryCreateCmd, categoryRenameCmd, categoryDeleteCmd, categoryListCmd)

	categoryCreateCmd.Flags().StringVar(&categoryCreateColor, "color", "", "Hex colour such as #4287f5 (default from config, then "+category.DefaultColor+")")
	listflags.AddJSONFlag(categoryListCmd, &categoryListJSON)
}

func runCategoryCreate(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, cfg *config.Config) error {
		color := categoryCreateColor
		if !cmd.Flags().Changed("color") {
			color = cfg.Defaults.CategoryColor
		}
		created, err := t.CreateCategory(args[0], color)
		return present(created, err, func(c category.Category) error {
			fmt.Printf("Created category %s: %s\n", highlightOne(c.ID), ui.CategoryLabel(c, true))
			return nil
		})
	})
}

func runCategoryRename(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		renamed, err := t.RenameCategory(args[0], args[1])
		return present(renamed, err, func(c category.Category) error {
			fmt.Printf("Renamed category %s to %s\n", highlightOne(c.ID), c.Name)
			return nil
		})
	})
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		affected, err := t.DeleteCategory(args[0])
		return present(affected, err, func(n int) error {
			fmt.Printf("Deleted category %s (%d %s uncategorized)\n", args[0], n, pluralize(n, "entity", "entities"))
			return nil
		})
	})
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		categories, err := t.ListCategories()
		return present(categories, err, func(categories []category.Category) error {
			if categoryListJSON {
				if categories == nil {
					categories = []category.Category{}
				}
				return encodeJSONToStdout(categories)
			}
			if len(categories) == 0 {
				printEmpty("categories")
				return nil
			}
			fmt.Print(formatCategoryTable(categories))
			return nil
		})
	})
}

func formatCategoryTable(categories []category.Category) string {
	idList := make([]string, 0, len(categories))
	for _, c := range categories {
		idList = append(idList, c.ID)
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "COLOR"}, len(categories))
	for _, c := range categories {
		builder.AddRow(highlight(c.ID), ui.CategoryLabel(c, true), c.Color)
	}
	return builder.String()
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
