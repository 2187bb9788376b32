package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` __      __              _____.__            .___`, "#38bdf8"},
	{`/  \    /  \_____  ___.__/ ____\__| ____   __| _/___________`, "#22d3ee"},
	{`\   \/\/   /\__  \<   |  \   __\|  |/    \ / __ |/ __ \_  __ \`, "#2dd4bf"},
	{` \        /  / __ \\___  ||  |  |  |   |  / /_/ \  ___/|  | \/`, "#34d399"},
	{`  \__/\  /  (____  / ____||__|  |__|___|  \____ |\___  >__|`, "#4ade80"},
	{`       \/        \/\/                   \/     \/    \/`, "#a3e635"},
}

// PrintBanner writes the wayfinder banner to w, coloured for the terminal profile of w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
