package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string](2, 50*time.Millisecond)
	c.Set("a", "Avery")
	if v, ok := c.Get("a"); !ok || v != "Avery" {
		t.Fatalf("expected cached value, got %q %v", v, ok)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, len=%d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected a to survive")
	}
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected a to be deleted")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword("secret1", hash) {
		t.Errorf("expected password to match")
	}
	if CheckPassword("secret2", hash) {
		t.Errorf("expected wrong password to fail")
	}
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if id, err := tokens.Parse(raw); err != nil || id != "user-1" {
		t.Fatalf("expected user-1, got %q %v", id, err)
	}

	if _, err := NewTokens("other-secret", time.Hour).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, _ := NewTokens("test-secret", -time.Minute).Issue("user-1")
	if _, err := tokens.Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
	if _, err := tokens.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name: "emphasis",
			in:   "**bold** and _em_",
			want: []string{"<strong>bold</strong>", "<em>em</em>"},
		},
		{
			name:    "script stripped",
			in:      "hi <script>alert(1)</script>",
			want:    []string{"hi"},
			notWant: []string{"<script", "alert(1)</script>"},
		},
		{
			name:    "images dropped",
			in:      "![x](https://example.com/a.png)",
			notWant: []string{"<img"},
		},
		{
			name: "links marked",
			in:   "[site](https://example.com)",
			want: []string{`href="https://example.com"`, "nofollow", "ugc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderMarkdown(tt.in))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %q", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("did not expect %q in %q", w, out)
				}
			}
		})
	}
}
