package telegram

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wonny/gammalert/internal/external/openrouter"
)

// Telegram messages use a restricted HTML subset (<b>, <i> only). All free
// text is escaped first, then bullets and paired **bold** markers are
// rewritten. The bold substitution is non-greedy and non-nested; malformed
// or nested markers stay as literal escaped text (known limitation, a full
// markdown parser is out of scope).

const bulletGlyph = "•"

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeHTML escapes markup-significant characters
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// NormalizeBody converts free text into the Telegram HTML subset:
// escape, then per line rewrite leading "* "/"- " bullets to the canonical
// glyph and paired ** markers to <b> tags.
func NormalizeBody(raw string) string {
	lines := strings.Split(escapeHTML(raw), "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
			line = bulletGlyph + " " + strings.TrimSpace(trimmed[2:])
		}

		lines[i] = boldPattern.ReplaceAllString(line, "<b>$1</b>")
	}

	return strings.Join(lines, "\n")
}

// RenderNarrative renders the structured analysis as labeled lines with
// bullet implications, normalized for Telegram. Empty implications are
// filtered, remaining items trimmed.
func RenderNarrative(n *openrouter.Narrative) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("**Zero Gamma**: %s\n", strings.TrimSpace(n.Significance)))
	b.WriteString(fmt.Sprintf("**Trend**: %s\n", strings.TrimSpace(n.Trend)))
	b.WriteString("**Implications**:")

	for _, item := range n.Implications {
		if item = strings.TrimSpace(item); item != "" {
			b.WriteString("\n- " + item)
		}
	}

	return NormalizeBody(b.String())
}

// FormatMessage assembles the outbound message: header (symbol + date),
// current price, zero gamma level, and the already-normalized body.
func FormatMessage(symbol, reportDate string, currentPrice, zeroGamma float64, body string) string {
	return fmt.Sprintf(
		"<b>%s Market Analysis</b>\n<i>%s</i>\n\n"+
			"<b>Current Price:</b> $%.2f\n"+
			"<b>Zero Gamma Level:</b> $%.2f\n\n"+
			"<b>Analysis:</b>\n%s",
		escapeHTML(symbol), escapeHTML(reportDate), currentPrice, zeroGamma, body,
	)
}

// FormatAnalysis formats a structured narrative into the outbound message
func FormatAnalysis(symbol, reportDate string, currentPrice, zeroGamma float64, n *openrouter.Narrative) string {
	return FormatMessage(symbol, reportDate, currentPrice, zeroGamma, RenderNarrative(n))
}

// FormatRaw formats free-form analysis text into the outbound message
// (fallback path when the structured contract is not in play)
func FormatRaw(symbol, reportDate string, currentPrice, zeroGamma float64, raw string) string {
	return FormatMessage(symbol, reportDate, currentPrice, zeroGamma, NormalizeBody(raw))
}
