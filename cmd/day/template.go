package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/editor"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/markdown"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tmpl"},
	Short:   "Manage task templates",
}

var templateCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a task template",
	Long: `Create a task template.

With no flags on an interactive terminal, opens $EDITOR on a TOML form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplateCreate,
}

var templateEditCmd = &cobra.Command{
	Use:   "edit TEMPLATE",
	Short: "Edit a task template",
	Long: `Edit a task template. Changes are copied onto the template's task instances.

With no field flags on an interactive terminal, opens $EDITOR on a TOML form.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateEdit,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete TEMPLATE...",
	Short: "Delete task templates",
	Long:  "Delete task templates. Instances already promoted from them are kept.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTemplateDelete,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List task templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show TEMPLATE",
	Short: "Show a task template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var (
	templateCreateDescription string
	templateCreateCategory    string
	templateCreateOneTime     bool
	templateCreateEdit        bool
	templateCreateNoEdit      bool

	templateEditName        string
	templateEditDescription string
	templateEditCategory    string
	templateEditOneTime     bool
	templateEditEdit        bool
	templateEditNoEdit      bool

	templateListJSON bool
	templateShowJSON bool
)

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateCreateCmd, templateEditCmd, templateDeleteCmd, templateListCmd, templateShowCmd)

	addFlagAliases(templateCreateCmd, templateEditCmd)

	templateCreateCmd.Flags().StringVarP(&templateCreateDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	templateCreateCmd.Flags().StringVarP(&templateCreateCategory, "category", "c", "", "Category name or id prefix")
	templateCreateCmd.Flags().BoolVar(&templateCreateOneTime, "one-time", false, "Retire the template after its first promotion")
	templateCreateCmd.Flags().BoolVarP(&templateCreateEdit, "edit", "e", false, "Open $EDITOR")
	templateCreateCmd.Flags().BoolVar(&templateCreateNoEdit, "no-edit", false, "Do not open $EDITOR")

	templateEditCmd.Flags().StringVar(&templateEditName, "name", "", "New name")
	templateEditCmd.Flags().StringVarP(&templateEditDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	templateEditCmd.Flags().StringVarP(&templateEditCategory, "category", "c", "", "New category name or id prefix (empty clears it)")
	templateEditCmd.Flags().BoolVar(&templateEditOneTime, "one-time", false, "Retire the template after its first promotion")
	templateEditCmd.Flags().BoolVarP(&templateEditEdit, "edit", "e", false, "Open $EDITOR")
	templateEditCmd.Flags().BoolVar(&templateEditNoEdit, "no-edit", false, "Do not open $EDITOR")

	listflags.AddJSONFlag(templateListCmd, &templateListJSON)
	listflags.AddJSONFlag(templateShowCmd, &templateShowJSON)
}

// printDescription renders a markdown description under a detail view.
func printDescription(description string) {
	if rendered := markdown.Render(descriptionWidth, 2, []byte(description)); rendered != nil {
		fmt.Printf("\n%s\n", rendered)
	}
}

const descriptionWidth = 80

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimSuffix(string(input), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}

func runTemplateCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(templateCreateDescription, os.Stdin)
		if err != nil {
			return err
		}
		templateCreateDescription = desc
	}

	input := tracker.TemplateInput{
		Description: templateCreateDescription,
		Category:    templateCreateCategory,
		OneTime:     templateCreateOneTime,
	}
	if len(args) > 0 {
		input.Name = args[0]
	}

	useEditor := templateCreateEdit || (!templateCreateNoEdit && editor.IsInteractive())
	if useEditor {
		parsed, err := editor.EditTemplateWithData(editor.TemplateData{
			Name:        input.Name,
			Category:    input.Category,
			OneTime:     input.OneTime,
			Description: input.Description,
		})
		if err != nil {
			return err
		}
		input = parsed.ToInput()
	} else if len(args) == 0 {
		return fmt.Errorf("name is required (use --edit to open editor)")
	}

	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		created, err := t.CreateTemplate(input)
		return present(created, err, func(tmpl task.Template) error {
			fmt.Printf("Created template %s: %s\n", highlightOne(tmpl.ID()), tmpl.Info.Name)
			return nil
		})
	})
}

func runTemplateEdit(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(templateEditDescription, os.Stdin)
		if err != nil {
			return err
		}
		templateEditDescription = desc
	}

	hasFieldFlags := hasChangedFlags(cmd, "name", "description", "category", "one-time")
	useEditor := templateEditEdit || (!templateEditNoEdit && !hasFieldFlags && editor.IsInteractive())
	if !useEditor && !hasFieldFlags {
		return fmt.Errorf("nothing to change (pass --name, --description, --category or --one-time, or use --edit)")
	}

	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var edit tracker.TemplateEdit
		if useEditor {
			current, err := t.ShowTemplate(args[0])
			if err != nil {
				return present(current, err, nil)
			}
			index, err := t.CategoryIndex()
			if err != nil {
				return err
			}
			parsed, err := editor.EditTemplateWithData(editor.DataFromTemplate(current, index.Name(current.Info.CategoryID)))
			if err != nil {
				return err
			}
			edit = parsed.ToEdit()
			args = []string{current.ID()}
		} else {
			if cmd.Flags().Changed("name") {
				edit.Name = &templateEditName
			}
			if cmd.Flags().Changed("description") {
				edit.Description = &templateEditDescription
			}
			if cmd.Flags().Changed("category") {
				edit.Category = &templateEditCategory
			}
			if cmd.Flags().Changed("one-time") {
				edit.OneTime = &templateEditOneTime
			}
		}

		updated, err := t.EditTemplate(args[0], edit)
		return present(updated, err, func(tmpl task.Template) error {
			fmt.Printf("Updated template %s: %s\n", highlightOne(tmpl.ID()), tmpl.Info.Name)
			return nil
		})
	})
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var failures []error
		for _, ref := range args {
			deleted, err := t.DeleteTemplate(ref)
			if err := present(deleted, err, func(tmpl task.Template) error {
				fmt.Printf("Deleted template %s: %s\n", highlightOne(tmpl.ID()), tmpl.Info.Name)
				return nil
			}); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		templates, err := t.ListTemplates()
		if err != nil {
			return present(templates, err, nil)
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		if templateListJSON {
			if templates == nil {
				templates = []task.Template{}
			}
			return encodeJSONToStdout(templates)
		}
		if len(templates) == 0 {
			printEmpty("templates")
			return nil
		}
		fmt.Print(formatTemplateTable(templates, index))
		return nil
	})
}

func formatTemplateTable(templates []task.Template, index category.Index) string {
	idList := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		idList = append(idList, tmpl.ID())
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "CATEGORY", "KIND"}, len(templates))
	for _, tmpl := range templates {
		kind := "recurring"
		if tmpl.OneTime {
			kind = "one-time"
		}
		c, ok := index[tmpl.Info.CategoryID]
		builder.AddRow(highlight(tmpl.ID()), ui.TruncateTableCell(tmpl.Info.Name), ui.CategoryLabel(c, ok), kind)
	}
	return builder.String()
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		tmpl, err := t.ShowTemplate(args[0])
		if err != nil {
			return present(tmpl, err, nil)
		}
		if templateShowJSON {
			return encodeJSONToStdout(tmpl)
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		c, ok := index[tmpl.Info.CategoryID]
		kind := "recurring"
		if tmpl.OneTime {
			kind = "one-time"
		}
		fmt.Printf("ID:       %s\n", highlightOne(tmpl.ID()))
		fmt.Printf("Name:     %s\n", tmpl.Info.Name)
		fmt.Printf("Category: %s\n", ui.CategoryLabel(c, ok))
		fmt.Printf("Kind:     %s\n", kind)
		fmt.Printf("Created:  %s\n", tmpl.Info.CreatedDate)
		printDescription(tmpl.Info.Description)
		return nil
	})
}
