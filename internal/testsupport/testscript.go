package testsupport

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// SetupScriptEnv gives each script its own home and state directory.
// Scripts run against a pinned DAYBOOK_TODAY of 2024-03-04, a Monday.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("DAYBOOK_STATE_DIR", filepath.Join(homeDir, ".local", "state", "daybook"))
	env.Setenv("DAYBOOK_TODAY", "2024-03-04")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdEntityID finds an entity by name in a JSON list and stores its ID in
// an env var. It understands flat {"id","name"} records, records that nest
// those fields under "info", and goal statuses that nest a goal.
func CmdEntityID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("entityid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: entityid FILE NAME VAR")
	}

	type idName struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type named struct {
		idName
		Info *idName `json:"info"`
		Goal *struct {
			Info idName `json:"info"`
		} `json:"goal"`
	}

	var items []named
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse entity list: %v", err)
	}

	name := args[1]
	for _, item := range items {
		id, itemName := item.ID, item.Name
		if item.Goal != nil {
			id, itemName = item.Goal.Info.ID, item.Goal.Info.Name
		}
		if item.Info != nil {
			itemName = item.Info.Name
			if id == "" {
				id = item.Info.ID
			}
		}
		if itemName == name {
			ts.Setenv(args[2], id)
			return
		}
	}

	ts.Fatalf("entity named %q not found", name)
}
