package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	accentColor  = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	featureColor = color.New(color.FgHiMagenta)
)

func printSuccess(cmd *cobra.Command, format string, args ...any) {
	successColor.Fprintln(cmd.OutOrStdout(), fmt.Sprintf(format, args...))
}

func printWarning(cmd *cobra.Command, format string, args ...any) {
	warnColor.Fprintln(cmd.OutOrStdout(), fmt.Sprintf(format, args...))
}

// prompt prints label and reads one trimmed line from the command's input.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(cmd *cobra.Command, reader *bufio.Reader, question string) bool {
	answer, err := prompt(cmd, reader, question+" [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
