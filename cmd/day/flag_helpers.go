package main

import (
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagAliases maps alternate spellings to the flag names commands define.
// Aliases resolve only on commands that define the target, and never show
// in usage.
var flagAliases = map[string]string{
	"desc":     "description",
	"cat":      "category",
	"due-date": "due",
	"start":    "begin",
}

func addFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), flagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if target, ok := aliases[name]; ok && f.Lookup(target) != nil {
			name = target
		}
		return normalize(f, name)
	})
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// parseDateFlag parses a YYYY-MM-DD flag value. Blank yields the zero date.
func parseDateFlag(name, value string) (day.Date, error) {
	d, err := day.Parse(value)
	if err != nil {
		return day.Date{}, errs.Validation(name, "%v", err)
	}
	return d, nil
}

// parseDateArg parses a positional date, resolving "today" and the empty
// string to today.
func parseDateArg(name, value string, today day.Date) (day.Date, error) {
	if value == "" || value == "today" {
		return today, nil
	}
	return parseDateFlag(name, value)
}
