package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// PrintBanner outputs the stagehand ASCII banner. It stays silent when
// stdout is not a terminal, so piped and platform-captured logs keep
// clean.
func PrintBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	p := termenv.ColorProfile()
	// Amber-to-rose gradient, one color per line.
	s1 := termenv.String("      _                   _                     _ ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String("  ___| |_ __ _  __ _  ___| |__   __ _ _ __   __| |").Foreground(p.Color("#fb923c"))
	s3 := termenv.String(" / __| __/ _` |/ _` |/ _ \\ '_ \\ / _` | '_ \\ / _` |").Foreground(p.Color("#f97316"))
	s4 := termenv.String(" \\__ \\ || (_| | (_| |  __/ | | | (_| | | | | (_| |").Foreground(p.Color("#f43f5e"))
	s5 := termenv.String(" |___/\\__\\__,_|\\__, |\\___|_| |_|\\__,_|_| |_|\\__,_|").Foreground(p.Color("#e11d48"))
	s6 := termenv.String("               |___/                              ").Foreground(p.Color("#be123c"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
