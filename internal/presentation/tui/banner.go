package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the TokWorld banner.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _____     _     __        __         _     _ ", "#34d399"},
		{"|_   _|__ | | __ \\ \\      / /__  _ __| | __| |", "#2dd4bf"},
		{"  | |/ _ \\| |/ /  \\ \\ /\\ / / _ \\| '__| |/ _` |", "#22d3ee"},
		{"  | | (_) |   <    \\ V  V / (_) | |  | | (_| |", "#38bdf8"},
		{"  |_|\\___/|_|\\_\\    \\_/\\_/ \\___/|_|  |_|\\__,_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
