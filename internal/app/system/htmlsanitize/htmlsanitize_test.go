package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	in := "Ocean Beach, north lot"
	if got := htmlsanitize.PlainText(in); got != in {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	in := "<p><strong>Bring</strong> gloves</p><script>alert('x')</script>"
	if got := htmlsanitize.PlainText(in); got != "Bring gloves" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_KeepsAmpersand(t *testing.T) {
	in := "Bags & gloves provided"
	if got := htmlsanitize.PlainText(in); got != in {
		t.Errorf("expected ampersand preserved, got %q", got)
	}
}

func TestPlainText_OnlyMarkupBecomesEmpty(t *testing.T) {
	if got := htmlsanitize.PlainText("  <b></b>  "); got != "" {
		t.Errorf("expected empty after stripping, got %q", got)
	}
}

func TestPlainText_EntityEncodedMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded empty tag", "&lt;b&gt;&lt;/b&gt;", ""},
		{"encoded tag around text", "&lt;em&gt;Bring&lt;/em&gt; gloves", "Bring gloves"},
		{"double encoded tag", "&amp;lt;i&amp;gt;Pier&amp;lt;/i&amp;gt;", "Pier"},
		{"encoded ampersand", "Bags &amp; gloves", "Bags & gloves"},
		{"less than in prose", "groups < 10 people", "groups < 10 people"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.PlainText(tt.in)
			if got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := htmlsanitize.PlainText(got); again != got {
				t.Errorf("not stable: second pass gave %q from %q", again, got)
			}
		})
	}
}
