package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test Setup ---

const sampleCSV = `Task name,Status,Assignee,Due,user_name
Design: write spec,Done,alice@example.com,2024年3月1日,
Design: review spec,Done,alice@example.com,2024年3月2日,
Design: drop draft,Archived,alice@example.com,2024年3月3日,
Design: ship spec,Done,alice@example.com,2024年3月4日,
Fix login,Done,bob@example.com,2024年3月1日,Bob
Fix logout,Done,bob@example.com,2024年3月2日,Bob
Fix signup,In progress,bob@example.com,2024年3月3日,Bob
Fix reset,Done,bob@example.com,2024年3月5日,Bob
`

func setupTests(t *testing.T) string {
	t.Helper()
	// Keep a developer's own config out of the tests.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("Failed to write sample CSV: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)

	// Set the command's output to our buffer
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)

	// Reset flags to default values before each run
	rootCmd.PersistentFlags().Set("file", "tasks.csv")
	rootCmd.PersistentFlags().Set("config", "")
	rootCmd.PersistentFlags().Set("verbose", "false")
	statsCmd.Flags().Set("start-date", "")
	statsCmd.Flags().Set("end-date", "")
	statsCmd.Flags().Set("sort", "")
	statsCmd.Flags().Set("format", "")
	statsCmd.Flags().Set("copy", "false")

	err := rootCmd.Execute()
	return b.String(), err
}

// executeCommandText captures plain text output from a command.
func executeCommandText(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCommand(t, args...)
	if err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	return out
}

type entityJSON struct {
	Entity        string `json:"entity"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalTasks    int    `json:"total_tasks"`
	Completed     int    `json:"completed_tasks"`
	Start         string `json:"current_streak_start"`
	End           string `json:"current_streak_end"`
}

func statsJSON(t *testing.T, args ...string) []entityJSON {
	t.Helper()
	out := executeCommandText(t, append([]string{"stats", "--format", "json"}, args...)...)
	var got []entityJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

// --- Test Functions ---

func TestStatsCommand(t *testing.T) {
	tmpFile := setupTests(t)

	t.Run("generates a human-readable report", func(t *testing.T) {
		output := executeCommandText(t, "stats", "--file", tmpFile)

		if !strings.Contains(output, "Streak Report (all dates)") {
			t.Error("Report missing correct title")
		}
		if !strings.Contains(output, "Sorted by current streak") {
			t.Error("Report missing sort description")
		}
		if !strings.Contains(output, "Design") || !strings.Contains(output, "Bob") {
			t.Error("Report missing entities")
		}
		if !strings.Contains(output, "3/4 (75.0%)") {
			t.Error("Report missing completion ratio")
		}
	})

	t.Run("sorts by current streak by default", func(t *testing.T) {
		got := statsJSON(t, "--file", tmpFile)
		require.Len(t, got, 2)

		assert.Equal(t, "Bob", got[0].Entity)
		assert.Equal(t, 3, got[0].CurrentStreak)
		assert.Equal(t, "2024-03-01", got[0].Start)
		assert.Equal(t, "2024-03-05", got[0].End)

		assert.Equal(t, "Design", got[1].Entity)
		assert.Equal(t, 1, got[1].CurrentStreak)
		assert.Equal(t, 2, got[1].LongestStreak)
		assert.Equal(t, 4, got[1].TotalTasks)
		assert.Equal(t, 3, got[1].Completed)
	})

	t.Run("filters by date range before computing streaks", func(t *testing.T) {
		got := statsJSON(t, "--file", tmpFile, "--start-date", "2024-03-04", "--end-date", "2024年3月5日")
		require.Len(t, got, 2)

		assert.Equal(t, "Design", got[0].Entity)
		assert.Equal(t, 1, got[0].TotalTasks)
		assert.Equal(t, "Bob", got[1].Entity)
		assert.Equal(t, 1, got[1].CurrentStreak)
	})

	t.Run("open-ended range", func(t *testing.T) {
		got := statsJSON(t, "--file", tmpFile, "--start-date", "2024-03-05")
		require.Len(t, got, 1)
		assert.Equal(t, "Bob", got[0].Entity)
	})

	t.Run("empty range yields empty result", func(t *testing.T) {
		got := statsJSON(t, "--file", tmpFile, "--start-date", "2025-01-01")
		assert.Empty(t, got)

		output := executeCommandText(t, "stats", "--file", tmpFile, "--start-date", "2025-01-01")
		assert.Contains(t, output, "No tasks found for the selected date range.")
	})

	t.Run("yaml output", func(t *testing.T) {
		output := executeCommandText(t, "stats", "--file", tmpFile, "--format", "yaml")
		assert.Contains(t, output, "entity: Bob")
		assert.Contains(t, output, "longest_streak: 3")
	})
}

func TestStatsCommand_SortAndConfig(t *testing.T) {
	tmpFile := setupTests(t)

	t.Run("flag sort", func(t *testing.T) {
		got := statsJSON(t, "--file", tmpFile, "--sort", "longest")
		require.Len(t, got, 2)
		assert.Equal(t, "Bob", got[0].Entity)
	})

	t.Run("config supplies defaults", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("default_format: json\nstart_date: \"2024-03-03\"\narchived_status: In progress\n"), 0o644))

		out := executeCommandText(t, "stats", "--file", tmpFile, "--config", cfgPath)
		var got []entityJSON
		require.NoError(t, json.Unmarshal([]byte(out), &got), out)
		require.Len(t, got, 2)

		// From 2024-03-03 on, "In progress" resets Bob's streak.
		byEntity := map[string]entityJSON{}
		for _, e := range got {
			byEntity[e.Entity] = e
		}
		assert.Equal(t, 1, byEntity["Bob"].CurrentStreak)
		assert.Equal(t, 2, byEntity["Bob"].TotalTasks)
		assert.Equal(t, 1, byEntity["Design"].CurrentStreak)
	})

	t.Run("config from XDG path", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "streakledger"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "streakledger", "config.toml"), []byte("default_format = \"json\"\n"), 0o644))

		out := executeCommandText(t, "stats", "--file", tmpFile)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), out)
	})
}

func TestStatsCommand_Errors(t *testing.T) {
	tmpFile := setupTests(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"stats", "--file", filepath.Join(t.TempDir(), "nope.csv")}, "could not read file"},
		{"bad start date", []string{"stats", "--file", tmpFile, "--start-date", "2024年13月1日"}, "invalid start date"},
		{"bad end date", []string{"stats", "--file", tmpFile, "--end-date", "2024年2月30日"}, "invalid end date"},
		{"reversed range", []string{"stats", "--file", tmpFile, "--start-date", "2024-03-05", "--end-date", "2024-03-01"}, "end date cannot be before start date"},
		{"bad sort", []string{"stats", "--file", tmpFile, "--sort", "ratio"}, "unknown sort key"},
		{"bad format", []string{"stats", "--file", tmpFile, "--format", "xml"}, "unknown output format"},
		{"missing config", []string{"stats", "--file", tmpFile, "--config", filepath.Join(t.TempDir(), "none.toml")}, "could not read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing required column", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("Task name,Status,Due\nA: x,Done,2024-03-01\n"), 0o644))

		_, err := runCommand(t, "stats", "--file", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required column: "Assignee"`)
	})
}

func TestRecordsCommand(t *testing.T) {
	tmpFile := setupTests(t)

	output := executeCommandText(t, "records", "--file", tmpFile)

	assert.Contains(t, output, "Design")
	assert.Contains(t, output, "2024-03-04")
	assert.Contains(t, output, "2024年3月4日")
	assert.Contains(t, output, "8 record(s)")
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("", "")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = parseWindow("2024-03-01", "")
	require.NoError(t, err)
	require.NotNil(t, w.Start)
	assert.Nil(t, w.End)

	w, err = parseWindow("2024-03-01", "2024-03-01")
	require.NoError(t, err)
	assert.True(t, w.Start.Equal(*w.End))
}
