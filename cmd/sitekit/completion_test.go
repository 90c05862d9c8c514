package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"complete -o filenames -F _sitekit sitekit", "snapshot enhance copy doctor", "--backend) COMPREPLY", "rod chromedp"}},
		{ShellZsh, []string{"#compdef sitekit", "'snapshot:", "--scroll-policy[", "(always found)", `*.(yaml|yml)`}},
		{ShellFish, []string{"complete -c sitekit -f", "-l disable", "-s o", "__fish_complete_directories"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		err := GenerateCompletion(&bytes.Buffer{}, Shell("powershell"))
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("GenerateCompletion() error = %v, want %v", err, ErrUnsupportedShell)
		}
	})
}

func TestGetCommands_FlagsMatchFlagSets(t *testing.T) {
	t.Parallel()

	byName := map[string]commandDef{}
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	has := func(cmd, flag string) *flagDef {
		for _, f := range byName[cmd].Flags {
			if f.Long == flag {
				return &f
			}
		}
		return nil
	}

	for _, tc := range []struct{ cmd, flag string }{
		{"snapshot", "wait"}, {"snapshot", "no-sandbox"}, {"snapshot", "watch"},
		{"enhance", "sw"}, {"enhance", "disable"}, {"copy", "index"},
	} {
		if has(tc.cmd, tc.flag) == nil {
			t.Errorf("%s completion lacks --%s", tc.cmd, tc.flag)
		}
	}

	if f := has("snapshot", "watch"); f != nil && !f.IsBool {
		t.Error("--watch should complete as a boolean")
	}
	if f := has("enhance", "disable"); f != nil && len(f.Values) == 0 {
		t.Error("--disable should offer feature names")
	}
}

func TestZshGlob(t *testing.T) {
	t.Parallel()

	if got := zshGlob("*.html"); got != "*.html" {
		t.Errorf("zshGlob(*.html) = %q", got)
	}
	if got := zshGlob("*.html,*.md"); got != "*.(html|md)" {
		t.Errorf("zshGlob(*.html,*.md) = %q", got)
	}
}
