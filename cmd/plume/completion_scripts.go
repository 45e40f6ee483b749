package main

import (
	"fmt"
	"io"
	"strings"
)

// commandNames returns the names of all commands in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// flagWords returns every long and short flag spelling for a command.
func flagWords(cmd commandDef) []string {
	var words []string
	for _, fl := range cmd.Flags {
		words = append(words, "--"+fl.Long)
		if fl.Short != "" {
			words = append(words, "-"+fl.Short)
		}
	}
	return words
}

// bashExclusion converts a comma-separated glob list into a compgen -X
// exclusion pattern ("*.md,*.markdown" becomes "!*.@(md|markdown)").
func bashExclusion(glob string) string {
	parts := strings.Split(glob, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if !strings.HasPrefix(p, "*.") {
			return "!" + glob
		}
		exts = append(exts, strings.TrimPrefix(p, "*."))
	}
	if len(exts) == 1 {
		return "!*." + exts[0]
	}
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

// generateBash writes the bash completion script.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	names := commandNames(cmds)

	var b strings.Builder
	b.WriteString("# bash completion for plume\n")
	b.WriteString("# Install: eval \"$(plume completion bash)\"\n\n")
	b.WriteString("_plume_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "    %s)\n", cmd.Name)
		writeBashCommand(&b, cmd, names)
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _plume_completions plume\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writeBashCommand emits the completion body for one command.
func writeBashCommand(b *strings.Builder, cmd commandDef, names []string) {
	switch cmd.Name {
	case "completion":
		b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
		return
	case "help":
		fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(names, " "))
		return
	case "version":
		return
	}

	// Value completion keyed on the previous word
	var plain []string
	var arms strings.Builder
	for _, fl := range cmd.Flags {
		if fl.Type == flagBool {
			continue
		}
		pat := "--" + fl.Long
		if fl.Short != "" {
			pat += "|-" + fl.Short
		}
		switch fl.Type {
		case flagEnum:
			fmt.Fprintf(&arms, "        %s)\n            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n            return\n            ;;\n",
				pat, strings.Join(fl.Values, " "))
		case flagFile:
			fmt.Fprintf(&arms, "        %s)\n            COMPREPLY=($(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n            return\n            ;;\n",
				pat, bashExclusion(fl.FileGlob))
		case flagDir:
			fmt.Fprintf(&arms, "        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\"))\n            return\n            ;;\n", pat)
		default:
			plain = append(plain, pat)
		}
	}
	if len(plain) > 0 {
		fmt.Fprintf(&arms, "        %s)\n            return\n            ;;\n", strings.Join(plain, "|"))
	}
	if arms.Len() > 0 {
		b.WriteString("        case \"$prev\" in\n")
		b.WriteString(arms.String())
		b.WriteString("        esac\n")
	}

	// Flag names when the current word starts with a dash
	if words := flagWords(cmd); len(words) > 0 {
		b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(words, " "))
		b.WriteString("            return\n")
		b.WriteString("        fi\n")
	}

	// Positional arguments
	switch {
	case cmd.TakesFiles:
		fmt.Fprintf(b, "        COMPREPLY=($(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n",
			bashExclusion(cmd.FilePattern))
	case cmd.TakesDirs:
		b.WriteString("        COMPREPLY=($(compgen -d -- \"$cur\"))\n")
	}
}

// zshEscape makes a description safe inside a single-quoted zsh spec.
func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	return strings.ReplaceAll(s, ":", "\\:")
}

// zshGlob converts a comma-separated glob list into a zsh glob
// ("*.yaml,*.yml" becomes "*.(yaml|yml)").
func zshGlob(glob string) string {
	parts := strings.Split(glob, ",")
	if len(parts) == 1 {
		return glob
	}
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if !strings.HasPrefix(p, "*.") {
			return strings.Join(parts, " ")
		}
		exts = append(exts, strings.TrimPrefix(p, "*."))
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// zshFlagSpec renders one _arguments spec for a flag.
func zshFlagSpec(fl flagDef) string {
	desc := zshEscape(fl.Desc)
	var action string
	switch fl.Type {
	case flagBool:
		// no argument
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", fl.Long, strings.Join(fl.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":file:_files -g \"%s\"", zshGlob(fl.FileGlob))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = fmt.Sprintf(":%s:", fl.Long)
	}
	if fl.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'",
			fl.Short, fl.Long, fl.Short, fl.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", fl.Long, desc, action)
}

// generateZsh writes the zsh completion script.
func generateZsh(w io.Writer) error {
	cmds := getCommands()

	var b strings.Builder
	b.WriteString("#compdef plume\n")
	b.WriteString("# zsh completion for plume\n")
	b.WriteString("# Install: eval \"$(plume completion zsh)\"\n\n")
	b.WriteString("_plume() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, zshEscape(cmd.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    _arguments -C \\\n")
	b.WriteString("        '1: :->command' \\\n")
	b.WriteString("        '*:: :->args'\n\n")
	b.WriteString("    case $state in\n")
	b.WriteString("    command)\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        ;;\n")
	b.WriteString("    args)\n")
	b.WriteString("        case $words[1] in\n")
	for _, cmd := range cmds {
		writeZshCommand(&b, cmd)
	}
	b.WriteString("        esac\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("if [ \"$funcstack[1]\" = \"_plume\" ]; then\n")
	b.WriteString("    _plume \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _plume plume\n")
	b.WriteString("fi\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writeZshCommand emits the _arguments call for one command.
func writeZshCommand(b *strings.Builder, cmd commandDef) {
	switch cmd.Name {
	case "completion":
		b.WriteString("        completion)\n            _arguments '1:shell:(bash zsh fish powershell)'\n            ;;\n")
		return
	case "help":
		b.WriteString("        help)\n            _describe 'command' commands\n            ;;\n")
		return
	}
	if len(cmd.Flags) == 0 && !cmd.TakesFiles && !cmd.TakesDirs {
		fmt.Fprintf(b, "        %s)\n            ;;\n", cmd.Name)
		return
	}

	fmt.Fprintf(b, "        %s)\n            _arguments", cmd.Name)
	for _, fl := range cmd.Flags {
		b.WriteString(" \\\n                ")
		b.WriteString(zshFlagSpec(fl))
	}
	switch {
	case cmd.TakesFiles:
		fmt.Fprintf(b, " \\\n                '*:file:_files -g \"%s\"'", zshGlob(cmd.FilePattern))
	case cmd.TakesDirs:
		b.WriteString(" \\\n                '*:directory:_files -/'")
	}
	b.WriteString("\n            ;;\n")
}

// fishEscape makes a description safe inside a single-quoted fish string.
func fishEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

// fishFlagLine renders one complete invocation for a flag.
func fishFlagLine(cmdName string, fl flagDef, bare bool) string {
	parts := []string{"complete", "-c", "plume"}
	if bare {
		parts = append(parts, "-f")
	}
	parts = append(parts, "-n", fmt.Sprintf("'__fish_plume_using_command %s'", cmdName))
	parts = append(parts, "-l", fl.Long)
	if fl.Short != "" {
		parts = append(parts, "-s", fl.Short)
	}
	switch fl.Type {
	case flagBool:
		// no argument
	case flagEnum:
		parts = append(parts, "-x", "-a", fmt.Sprintf("'%s'", strings.Join(fl.Values, " ")))
	case flagDir:
		parts = append(parts, "-x", "-a", "'(__fish_complete_directories)'")
	default:
		parts = append(parts, "-r")
	}
	if fl.Desc != "" {
		parts = append(parts, "-d", fmt.Sprintf("'%s'", fishEscape(fl.Desc)))
	}
	return strings.Join(parts, " ")
}

// generateFish writes the fish completion script.
func generateFish(w io.Writer) error {
	cmds := getCommands()
	names := commandNames(cmds)

	var b strings.Builder
	b.WriteString("# fish completion for plume\n")
	b.WriteString("# Install: plume completion fish > ~/.config/fish/completions/plume.fish\n\n")
	b.WriteString("function __fish_plume_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_plume_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	b.WriteString("# Commands\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "complete -c plume -f -n __fish_plume_needs_command -a %s -d '%s'\n",
			cmd.Name, fishEscape(cmd.Desc))
	}
	b.WriteString("\n")

	for _, cmd := range cmds {
		switch cmd.Name {
		case "completion":
			b.WriteString("# completion shells\n")
			b.WriteString("complete -c plume -f -n '__fish_plume_using_command completion' -a 'bash zsh fish powershell'\n\n")
			continue
		case "help":
			b.WriteString("# help topics\n")
			fmt.Fprintf(&b, "complete -c plume -f -n '__fish_plume_using_command help' -a '%s'\n\n",
				strings.Join(names, " "))
			continue
		}
		if len(cmd.Flags) == 0 {
			continue
		}
		bare := !cmd.TakesFiles && !cmd.TakesDirs
		fmt.Fprintf(&b, "# %s flags\n", cmd.Name)
		for _, fl := range cmd.Flags {
			b.WriteString(fishFlagLine(cmd.Name, fl, bare))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// generatePowerShell writes the PowerShell completion script.
func generatePowerShell(w io.Writer) error {
	cmds := getCommands()

	var b strings.Builder
	b.WriteString("# PowerShell completion for plume\n")
	b.WriteString("# Install: plume completion powershell | Out-String | Invoke-Expression\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName plume -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @{\n")
	for _, cmd := range cmds {
		words := flagWords(cmd)
		quoted := make([]string, 0, len(words))
		for _, word := range words {
			quoted = append(quoted, "'"+word+"'")
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", cmd.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | Select-Object -Skip 1 | ForEach-Object { $_.ToString() })\n\n")
	b.WriteString("    if ($elements.Count -eq 0 -or ($elements.Count -eq 1 -and $elements[0] -eq $wordToComplete)) {\n")
	b.WriteString("        $commands.Keys | Sort-Object | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $command = $elements[0]\n")
	b.WriteString("    if ($command -eq 'completion') {\n")
	b.WriteString("        @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    if ($commands.ContainsKey($command)) {\n")
	b.WriteString("        $commands[$command] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
