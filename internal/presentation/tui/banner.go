package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Convoy.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   _____                            ", "#818cf8"},
		{"  / ____|                           ", "#8b8cf9"},
		{" | |     ___  _ ____   _____  _   _ ", "#a78bfa"},
		{" | |    / _ \\| '_ \\ \\ / / _ \\| | | |", "#c084fc"},
		{" | |___| (_) | | | \\ V / (_) | |_| |", "#e879f9"},
		{"  \\_____\\___/|_| |_|\\_/ \\___/ \\__, |", "#f472b6"},
		{"                               __/ |", "#f85ba0"},
		{"                              |___/ ", "#fb7185"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
