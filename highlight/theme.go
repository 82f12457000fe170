package highlight

import (
	"strings"

	"github.com/pterm/pterm"
)

// Theme maps styles to terminal styles. Styles missing from a theme are
// rendered as plain text.
type Theme map[Style]*pterm.Style

// DefaultTheme is a theme for dark terminals.
func DefaultTheme() Theme {
	return Theme{
		StyleKeyword:          pterm.NewStyle(pterm.FgYellow),
		StyleBuiltinType:      pterm.NewStyle(pterm.FgLightBlue),
		StyleString:           pterm.NewStyle(pterm.FgGreen),
		StyleComment:          pterm.NewStyle(pterm.FgGray, pterm.Italic),
		StyleNumber:           pterm.NewStyle(pterm.FgCyan),
		StyleBracket:          pterm.NewStyle(pterm.FgWhite),
		StyleMatchedBracket:   pterm.NewStyle(pterm.BgBlue, pterm.FgBlack),
		StyleUnmatchedBracket: pterm.NewStyle(pterm.FgLightRed, pterm.Bold),
		StyleError:            pterm.NewStyle(pterm.FgRed, pterm.Underscore),
	}
}

// Render returns text with terminal escape codes for all styled spans.
// Spans must be ordered and must not overlap, as is the case for spans of a
// Result.
func Render(text string, spans []Span, theme Theme) string {
	runes := []rune(text)
	var sb strings.Builder
	pos := 0
	for _, span := range spans {
		from, to := span.Range.From(), span.Range.To()
		if from < pos || to > len(runes) {
			continue
		}
		sb.WriteString(string(runes[pos:from]))
		chunk := string(runes[from:to])
		if style, ok := theme[span.Style]; ok && style != nil {
			// style every line of a span on its own, so line breaks stay uncolored
			lines := strings.SplitAfter(chunk, "\n")
			for _, l := range lines {
				body := strings.TrimRight(l, "\r\n")
				if body != "" {
					sb.WriteString(style.Sprint(body))
				}
				sb.WriteString(l[len(body):])
			}
		} else {
			sb.WriteString(chunk)
		}
		pos = to
	}
	if pos < len(runes) {
		sb.WriteString(string(runes[pos:]))
	}
	return sb.String()
}
