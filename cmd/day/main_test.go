package main

import (
	"os"
	"testing"

	"github.com/amonks/daybook/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"day": run,
	}))
}

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "day" {
		t.Fatalf("expected root command name day, got %q", rootCmd.Use)
	}
}

func runScripts(t *testing.T, dir string) {
	t.Helper()
	testscript.Run(t, testscript.Params{
		Dir: dir,
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset":   testsupport.CmdEnvSet,
			"entityid": testsupport.CmdEntityID,
		},
	})
}

func TestCategoryScripts(t *testing.T) { runScripts(t, "testdata/category") }

func TestTemplateScripts(t *testing.T) { runScripts(t, "testdata/template") }

func TestTodayScripts(t *testing.T) { runScripts(t, "testdata/today") }

func TestGoalScripts(t *testing.T) { runScripts(t, "testdata/goal") }

func TestJournalScripts(t *testing.T) { runScripts(t, "testdata/journal") }

func TestStoreScripts(t *testing.T) { runScripts(t, "testdata/store") }

func TestVersionScripts(t *testing.T) { runScripts(t, "testdata/version") }
