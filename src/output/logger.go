package output

import (
	"fmt"
	"io"
	"strings"
)

// Logger writes leveled, human-facing progress lines.
type Logger struct {
	w       io.Writer
	color   bool
	verbose bool
}

// NewLogger creates a logger on w.
func NewLogger(w io.Writer, color, verbose bool) *Logger {
	return &Logger{w: w, color: color, verbose: verbose}
}

func (l *Logger) line(tag, color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.w, "%s %s\n", colorize(tag, color, l.color), msg)
}

// Info prints an informational line.
func (l *Logger) Info(format string, args ...any) {
	l.line("[INFO]", colorBlue, format, args...)
}

// Success prints a success line.
func (l *Logger) Success(format string, args ...any) {
	l.line("[ OK ]", colorGreen, format, args...)
}

// Warn prints a warning line.
func (l *Logger) Warn(format string, args ...any) {
	l.line("[WARN]", colorYellow, format, args...)
}

// Error prints an error line.
func (l *Logger) Error(format string, args ...any) {
	l.line("[FAIL]", colorRed, format, args...)
}

// Debug prints only in verbose mode.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line("[DBUG]", colorGray, format, args...)
}

// Step prints a "[i/n] msg" progress line.
func (l *Logger) Step(i, n int, msg string) {
	counter := fmt.Sprintf("[%d/%d]", i, n)
	fmt.Fprintf(l.w, "\n%s %s\n", colorize(counter, colorBold+colorCyan, l.color), colorize(msg, colorBold, l.color))
}

// Target prints one resolved target.
func (l *Logger) Target(friendly, triple string) {
	fmt.Fprintf(l.w, "  • %s %s\n", colorize(friendly, colorCyan, l.color), Dimmed("("+triple+")", l.color))
}

// Newline prints an empty line.
func (l *Logger) Newline() {
	fmt.Fprintln(l.w)
}

// Header prints a bold underlined title.
func (l *Logger) Header(title string) {
	fmt.Fprintf(l.w, "\n%s\n%s\n", colorize(title, colorBold, l.color), strings.Repeat("─", len([]rune(title))))
}
