package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-sitekit"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string   // --output
	Short  string   // -o (empty if none)
	Desc   string   // help text
	IsBool bool     // takes no value
	Values []string // enum values
	Glob   string   // file glob, e.g. "*.yaml"
	IsDir  bool     // directory completion
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Glob  string // glob for file arguments
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values []string
	Glob   string
	IsDir  bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"backend":       {Values: sitekit.Backends},
	"wait":          {Values: []string{"load", "domcontentloaded", "networkidle"}},
	"scroll-policy": {Values: []string{"always", "found"}},
	"disable":       {Values: sitekit.FeatureNames()},
	"config":        {Glob: "*.yaml,*.yml"},
	"output":        {IsDir: true},
	"asset-path":    {IsDir: true},
}

// extractFlags converts a FlagSet into completion definitions.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values, fd.Glob, fd.IsDir = meta.Values, meta.Glob, meta.IsDir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets - single source of truth.
func getCommands() []commandDef {
	snapshotFS := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	registerSnapshotFlags(snapshotFS, &snapshotFlags{})
	enhanceFS := flag.NewFlagSet("enhance", flag.ContinueOnError)
	registerEnhanceFlags(enhanceFS, &enhanceFlags{})
	copyFS := flag.NewFlagSet("copy", flag.ContinueOnError)
	registerCopyFlags(copyFS, &copyFlags{})

	return []commandDef{
		{Name: "snapshot", Desc: "Generate the social preview image", Flags: extractFlags(snapshotFS), Glob: "*.html,*.md"},
		{Name: "enhance", Desc: "Add interactive behaviors to HTML pages", Flags: extractFlags(enhanceFS), Glob: "*.html"},
		{Name: "copy", Desc: "Copy a code block from a page to the clipboard", Flags: extractFlags(copyFS), Glob: "*.html"},
		{Name: "doctor", Desc: "Check browser and system setup", Flags: []flagDef{{Long: "json", Desc: "machine-readable output", IsBool: true}}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for sitekit\n")
	b.WriteString("_sitekit() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("  if [ \"$COMP_CWORD\" -eq 1 ]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", commandNames(cmds))
	b.WriteString("    return\n  fi\n")
	b.WriteString("  case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || (len(f.Values) == 0 && !f.IsDir) {
				continue
			}
			seen[f.Long] = true
			if f.IsDir {
				fmt.Fprintf(&b, "    --%s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;\n", f.Long)
				continue
			}
			fmt.Fprintf(&b, "    --%s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n", f.Long, strings.Join(f.Values, " "))
		}
	}
	b.WriteString("  esac\n")
	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		if c.Name == "completion" {
			opts = []string{string(ShellBash), string(ShellZsh), string(ShellFish)}
		}
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\") ) ;;\n", c.Name, strings.Join(opts, " "))
	}
	b.WriteString("  esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _sitekit sitekit\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef sitekit\n\n")
	b.WriteString("_sitekit() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case $words[2] in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.Name != "completion" {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		switch {
		case c.Name == "completion":
			b.WriteString("        '1:shell:(bash zsh fish)'\n")
		case c.Glob != "":
			fmt.Fprintf(&b, "        '*:file:_files -g \"%s\"'\n", zshGlob(c.Glob))
		default:
			b.WriteString("        '*:file:_files'\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _sitekit sitekit\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch {
	case f.IsBool:
		return ""
	case len(f.Values) > 0:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case f.IsDir:
		return ":directory:_files -/"
	case f.Glob != "":
		return ":file:_files -g \"" + zshGlob(f.Glob) + "\""
	default:
		return ":value:"
	}
}

// zshGlob turns "*.a,*.b" into the zsh alternation "*.(a|b)".
func zshGlob(glob string) string {
	parts := strings.Split(glob, ",")
	if len(parts) == 1 {
		return glob
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for sitekit\n")
	b.WriteString("complete -c sitekit -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c sitekit -n __fish_use_subcommand -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		if c.Glob != "" {
			fmt.Fprintf(&b, "complete -c sitekit -n %q -F\n", cond)
		}
		if c.Name == "completion" {
			fmt.Fprintf(&b, "complete -c sitekit -n %q -a 'bash zsh fish'\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c sitekit -n %q -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch {
			case len(f.Values) > 0:
				line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
			case f.IsDir:
				line += " -x -a '(__fish_complete_directories)'"
			case !f.IsBool:
				line += " -r"
			}
			line += fmt.Sprintf(" -d %q", f.Desc)
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitekit completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(sitekit completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(sitekit completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    sitekit completion fish > ~/.config/fish/completions/sitekit.fish")
}
