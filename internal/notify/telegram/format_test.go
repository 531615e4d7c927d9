package telegram

import (
	"strings"
	"testing"

	"github.com/wonny/gammalert/internal/external/openrouter"
)

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bold and bullets",
			raw:  "**Bold** line\n- item one\n* item two",
			want: "<b>Bold</b> line\n• item one\n• item two",
		},
		{
			name: "escaping before bold rewrite",
			raw:  "**a < b** & more",
			want: "<b>a &lt; b</b> &amp; more",
		},
		{
			name: "unpaired markers stay literal",
			raw:  "**unclosed bold",
			want: "**unclosed bold",
		},
		{
			name: "multiple bold pairs non-greedy",
			raw:  "**one** and **two**",
			want: "<b>one</b> and <b>two</b>",
		},
		{
			name: "indented bullet",
			raw:  "  - padded item  ",
			want: "• padded item",
		},
		{
			name: "dash without space is not a bullet",
			raw:  "-not a bullet",
			want: "-not a bullet",
		},
		{
			name: "raw html is escaped",
			raw:  "<script>alert(1)</script>",
			want: "&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name: "bold does not span lines",
			raw:  "**one\ntwo**",
			want: "**one\ntwo**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBody(tt.raw); got != tt.want {
				t.Errorf("NormalizeBody(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRenderNarrative(t *testing.T) {
	narrative := &openrouter.Narrative{
		Significance: "Spot above the flip point.",
		Trend:        "Uptrend intact.",
		Implications: []string{"a", "", "  b  "},
	}

	got := RenderNarrative(narrative)

	want := "<b>Zero Gamma</b>: Spot above the flip point.\n" +
		"<b>Trend</b>: Uptrend intact.\n" +
		"<b>Implications</b>:\n" +
		"• a\n" +
		"• b"

	if got != want {
		t.Errorf("RenderNarrative() = %q, want %q", got, want)
	}
}

func TestFormatAnalysis(t *testing.T) {
	narrative := &openrouter.Narrative{
		Significance: "s",
		Trend:        "t",
		Implications: []string{"i"},
	}

	msg := FormatAnalysis("SPX", "2026-08-27", 6450.125, 6400.5, narrative)

	for _, want := range []string{
		"<b>SPX Market Analysis</b>",
		"<i>2026-08-27</i>",
		"<b>Current Price:</b> $6450.12",
		"<b>Zero Gamma Level:</b> $6400.50",
		"<b>Analysis:</b>",
		"<b>Zero Gamma</b>: s",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected message to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestFormatRaw(t *testing.T) {
	msg := FormatRaw("SPX", "2026-08-27", 6450, 6400, "**Bold** take\n- watch 6400")

	if !strings.Contains(msg, "<b>Bold</b> take\n• watch 6400") {
		t.Errorf("Expected normalized raw body, got:\n%s", msg)
	}
}

func TestFormatMessageEscapesHeader(t *testing.T) {
	msg := FormatMessage("A&B", "<date>", 1, 2, "body")

	if !strings.Contains(msg, "<b>A&amp;B Market Analysis</b>") {
		t.Errorf("Expected escaped symbol in header, got:\n%s", msg)
	}
	if !strings.Contains(msg, "<i>&lt;date&gt;</i>") {
		t.Errorf("Expected escaped date, got:\n%s", msg)
	}
}
