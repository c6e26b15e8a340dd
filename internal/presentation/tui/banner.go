package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for sluice.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Water-themed gradient (sky -> teal)
	s1 := termenv.String("      _       _           ").Foreground(p.Color("#38bdf8"))
	s2 := termenv.String("  ___| |_   _(_) ___ ___  ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" / __| | | | | |/ __/ _ \\ ").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String(" \\__ \\ | |_| | | (_|  __/ ").Foreground(p.Color("#34d399"))
	s5 := termenv.String(" |___/_|\\__,_|_|\\___\\___| ").Foreground(p.Color("#4ade80"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	if v := strings.TrimSpace(version); v != "" {
		fmt.Println(termenv.String("  v" + v).Faint())
	}
	fmt.Println()
}
