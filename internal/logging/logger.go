// Package logging provides colored, leveled console output for the crewchief
// CLI and the structured diagnostics logger used by the extraction engine.
//
// Console functions write a prefixed, color-coded line to stderr so that
// command output on stdout stays clean. Debug output is suppressed unless
// verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// verbose controls whether Debug() produces output.
var verbose bool

// output is where every console line goes.
var output io.Writer = os.Stderr

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose = v
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	return verbose
}

// SetOutput redirects console output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := output
	output = w
	return prev
}

// Info prints an informational message in blue.
func Info(msg string) {
	fmt.Fprintln(output, infoPrefix("[INFO]")+" "+msg)
}

// Success prints a success message in green.
func Success(msg string) {
	fmt.Fprintln(output, successPrefix("[SUCCESS]")+" "+msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	fmt.Fprintln(output, warnPrefix("[WARN]")+" "+msg)
}

// Error prints an error message in red.
func Error(msg string) {
	fmt.Fprintln(output, errorPrefix("[ERROR]")+" "+msg)
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
func Debug(msg string) {
	if !verbose {
		return
	}
	fmt.Fprintln(output, debugPrefix("[DEBUG]")+" "+msg)
}

// DebugBlock prints a titled multi-line block at debug level, indenting
// every line of body.
func DebugBlock(title, body string) {
	if !verbose {
		return
	}
	fmt.Fprintln(output, debugPrefix("[DEBUG]")+" "+title)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		fmt.Fprintln(output, "    "+line)
	}
}
