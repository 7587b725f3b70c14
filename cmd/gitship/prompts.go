package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// https://github.com/muesli/termenv/blob/master/ansicolors.go
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// promptLine prints a prompt and reads one trimmed line, falling back to
// defaultValue on empty input.
func promptLine(in *bufio.Reader, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s%s: ", prompt, gray.Render("("+defaultValue+")"))
	} else {
		fmt.Printf("%s: ", prompt)
	}

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return defaultValue
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}
	return line
}

// confirm asks a yes/no question. Only an exact "yes" (case-insensitive)
// proceeds; anything else cancels.
func confirm(in *bufio.Reader, question string) bool {
	fmt.Printf("\n%s (yes/no): ", question)

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
