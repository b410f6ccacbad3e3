package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
)

const (
	logoText1 = "█ █ ▄▀█ █▄▄ █ ▀█▀ ▄▀█ ▀█▀"
	logoText2 = "█▀█ █▀█ █▄█ █  █  █▀█  █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "habitat",
	Short: "Property tenure claim registration for field offices",
}

// renderLogo creates the logo with gradient colors.
func renderLogo() string {
	line1 := applyGradient(logoText1, "#cba6f7", "#89b4fa")
	line2 := applyGradient(logoText2, "#cba6f7", "#89b4fa")
	return strings.Join([]string{line1, line2}, "\n")
}

// applyGradient colors each rune along a blend between two hex colors.
func applyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	var b strings.Builder
	for i, r := range runes {
		pos := float64(i) / float64(len(runes)-1)
		if len(runes) == 1 {
			pos = 0
		}
		b.WriteString(colorize(string(r), blendHex(from, to, pos)))
	}
	return b.String()
}

func blendHex(from, to string, pos float64) string {
	r1, g1, b1 := parseHex(from)
	r2, g2, b2 := parseHex(to)
	r := uint8(float64(r1)*(1-pos) + float64(r2)*pos)
	g := uint8(float64(g1)*(1-pos) + float64(g2)*pos)
	b := uint8(float64(b1)*(1-pos) + float64(b2)*pos)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func parseHex(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	if len(hex) == 6 {
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}

func colorize(s, hex string) string {
	r, g, b := parseHex(hex)
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
}

func init() {
	rootCmd.Long = renderLogo() + `

habitat is the desktop client registration clerks use to record property
tenure claims: buildings, units, households, persons, and the evidence
backing each claim. Reference data lives in a local SQLite registry;
in-progress surveys are drafted to an embedded NATS JetStream store so a
clerk can suspend and resume work at any time.`

	rootCmd.AddCommand(surveyCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(seedCmd)
}
