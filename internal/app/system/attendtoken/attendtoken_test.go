package attendtoken_test

import (
	"bytes"
	"encoding/base32"
	"strings"
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/system/attendtoken"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerate_Format(t *testing.T) {
	tok, err := attendtoken.Generator{}.Generate(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tok) != attendtoken.EncodedLen {
		t.Fatalf("expected %d-character token, got %d", attendtoken.EncodedLen, len(tok))
	}
	if strings.Contains(tok, "=") {
		t.Fatal("expected no padding")
	}
	if !attendtoken.WellFormed(tok) {
		t.Fatalf("token %q not well formed", tok)
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(tok))
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if len(decoded) != attendtoken.Size {
		t.Fatalf("expected %d decoded bytes, got %d", attendtoken.Size, len(decoded))
	}
}

func TestGenerate_Distinct(t *testing.T) {
	gen := attendtoken.Generator{}
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := gen.Generate(primitive.NewObjectID())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerate_SameEventDifferentTokens(t *testing.T) {
	gen := attendtoken.Generator{}
	id := primitive.NewObjectID()
	a, _ := gen.Generate(id)
	b, _ := gen.Generate(id)
	if a == b {
		t.Fatal("expected tokens for the same event id to differ")
	}
}

func TestGenerate_RandomFailure(t *testing.T) {
	gen := attendtoken.Generator{Random: func(int) []byte { return nil }}
	if _, err := gen.Generate(primitive.NewObjectID()); err != attendtoken.ErrNoEntropy {
		t.Fatalf("expected ErrNoEntropy, got %v", err)
	}
}

func TestGenerate_UsesRandomSource(t *testing.T) {
	gen := attendtoken.Generator{Random: func(n int) []byte { return bytes.Repeat([]byte{0}, n) }}
	tok, err := gen.Generate(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if tok != strings.Repeat("a", attendtoken.EncodedLen) {
		t.Fatalf("unexpected token for zero bytes: %q", tok)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"  ABC \n", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := attendtoken.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWellFormed(t *testing.T) {
	good := strings.Repeat("a", attendtoken.EncodedLen)
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid", good, true},
		{"empty", "", false},
		{"short", good[1:], false},
		{"uppercase", strings.ToUpper(good), false},
		{"bad digit", "1" + good[1:], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attendtoken.WellFormed(tt.in); got != tt.want {
				t.Errorf("WellFormed(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	gen := attendtoken.Generator{}
	tok, err := gen.Generate(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, ok := gen.Parse("  " + strings.ToUpper(tok) + "\r\n")
	if !ok || got != tok {
		t.Errorf("Parse(uppercased) = %q, %v; want %q, true", got, ok, tok)
	}
	if _, ok := gen.Parse("https://example.com/e/1"); ok {
		t.Error("expected a URL payload to be rejected")
	}
}
