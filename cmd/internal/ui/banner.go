package ui

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

// Banner renders the ASCII-art program banner followed by the logged-in
// line. An empty id renders the banner alone (pre-login).
func (r *Renderer) Banner(username, userID string) {
	art := figure.NewFigure("catapult", "", true).String()
	fmt.Fprintln(r.w, bannerStyle.Render(art))
	if userID != "" {
		fmt.Fprintf(r.w, "Logged in as: %s (ID: %s)\n", username, userID)
	}
}
