package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent   = 74  // blue
	colorMuted    = 245 // medium gray
	colorActive   = 77  // green
	colorInactive = 167 // red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// RenderActive returns s in green, used for active experiments and enabled
// features.
func RenderActive(s string) string {
	return render(colorActive, s)
}

// RenderInactive returns s in red, used for inactive experiments and
// disabled features.
func RenderInactive(s string) string {
	return render(colorInactive, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}
