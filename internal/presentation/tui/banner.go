package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the client banner with its version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"          _                      _       _   ", "#818cf8"},
		{"  _ __ __| |_ __ ___  ___ _ __(_)_ __ | |_ ", "#a78bfa"},
		{" | '__/ _` | '__/ __|/ __| '__| | '_ \\| __|", "#c084fc"},
		{" | | | (_| | |  \\__ \\ (__| |  | | |_) | |_ ", "#e879f9"},
		{" |_|  \\__,_|_|  |___/\\___|_|  |_| .__/ \\__|", "#f472b6"},
		{"                                |_|   " + version, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
