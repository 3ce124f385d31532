// Package render draws traces and scope maps as terminal tables.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/varlens/varlens/pkg/varlens"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ShouldColor decides styling from the config mode ("auto", "always",
// "never") and whether the writer is a terminal.
func ShouldColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Trace writes each variable's history as a table, variables sorted by
// key, events in observation order.
func Trace(w io.Writer, tm map[string][]varlens.TraceEvent, colored bool) {
	if len(tm) == 0 {
		fmt.Fprintln(w, "no variable changes recorded")
		return
	}

	keys := make([]string, 0, len(tm))
	for key := range tm {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Variable", "#", "Line", "Assigned In", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, key := range keys {
		for i, ev := range tm[key] {
			name := key
			if i > 0 {
				name = ""
			}
			table.Append([]string{
				name,
				strconv.Itoa(i + 1),
				strconv.Itoa(ev.Line),
				ev.AssignedIn,
				ev.Value,
			})
		}
	}
	table.Render()

	title := "Variable history"
	if colored {
		title = titleStyle.Render(title)
	}
	fmt.Fprintf(w, "%s\n\n%s\n", title, buf.String())
}

// Scopes writes the static scope analysis: per-line scope tags and each
// scope's local names.
func Scopes(w io.Writer, info varlens.ScopeInfo, colored bool) {
	lines := make([]int, 0, len(info.LineToScope))
	for key := range info.LineToScope {
		if line, err := strconv.Atoi(key); err == nil {
			lines = append(lines, line)
		}
	}
	sort.Ints(lines)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Line", "Scope", "Globals Declared"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, line := range lines {
		key := strconv.Itoa(line)
		table.Append([]string{
			key,
			info.LineToScope[key],
			strings.Join(info.GlobalDeclarations[key], ", "),
		})
	}
	table.Render()

	title := "Line scopes"
	if colored {
		title = titleStyle.Render(title)
	}
	fmt.Fprintf(w, "%s\n\n%s\n", title, buf.String())

	scopes := make([]string, 0, len(info.ScopeToLocals))
	for name := range info.ScopeToLocals {
		scopes = append(scopes, name)
	}
	sort.Strings(scopes)

	for _, name := range scopes {
		label := name
		if colored {
			label = dimStyle.Render(label)
		}
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(info.ScopeToLocals[name], ", "))
	}
}

// Failure writes the run failure line, styled when colored.
func Failure(w io.Writer, message string, colored bool) {
	if colored {
		message = errStyle.Render(message)
	}
	fmt.Fprintln(w, message)
}
