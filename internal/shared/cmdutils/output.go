package cmdutils

import (
	"fmt"
	"io"
)

const logo = "🏴‍☠️"

// PrintResponse writes a narrator reply to w; empty text prints nothing.
func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(w, "\n%s lorekeeper\n%s\n\n", logo, text)
}
