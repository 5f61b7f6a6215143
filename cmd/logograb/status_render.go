package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"logograb/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusStyles maps each kind to its bracketed label and terminal color.
var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// statusLine is one row of `logograb status` output.
type statusLine struct {
	Label  string
	Kind   statusKind
	Detail string
}

func checkLine(result preflight.Result) statusLine {
	kind := statusOK
	if !result.Passed {
		kind = statusError
	}
	return statusLine{Label: result.Name, Kind: kind, Detail: result.Detail}
}

// statusPrinter writes aligned status lines, colorized only on a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
	width    int
}

func newStatusPrinter(out io.Writer, lines []statusLine) *statusPrinter {
	width := 0
	for _, line := range lines {
		width = max(width, len(line.Label)+1)
	}
	return &statusPrinter{out: out, colorize: shouldColorize(out), width: width}
}

func (p *statusPrinter) header(title string) {
	line := "== " + strings.TrimSpace(title) + " =="
	if p.colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(p.out, line)
}

func (p *statusPrinter) print(lines []statusLine) {
	for _, line := range lines {
		fmt.Fprintln(p.out, renderStatusLine(line, p.width, p.colorize))
	}
}

func renderStatusLine(line statusLine, width int, colorize bool) string {
	style := statusStyles[line.Kind]
	text := "[" + style.label + "]"
	if line.Detail != "" {
		text += " " + line.Detail
	}
	rendered := fmt.Sprintf("  %-*s %s", width, line.Label+":", text)
	if colorize && style.color != "" {
		return style.color + rendered + ansiReset
	}
	return rendered
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
