package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amonks/daybook/internal/ids"
	"github.com/amonks/daybook/internal/ui"
)

func encodeJSONToStdout(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// highlighter returns a function that highlights each id's unique prefix
// among idList.
func highlighter(idList []string) func(string) string {
	lengths := ids.UniquePrefixLengths(idList)
	return func(id string) string {
		return ui.HighlightID(id, ui.PrefixLength(lengths, id))
	}
}

// highlightOne highlights a single id with its full length as the prefix.
func highlightOne(id string) string {
	return ui.HighlightID(id, len(id))
}

func printEmpty(kind string) {
	fmt.Printf("No %s found.\n", kind)
}
