package service

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Welcome to My Blog", "welcome-to-my-blog"},
		{"  Hello,   World!  ", "hello-world"},
		{"Crème Brûlée Notes", "creme-brulee-notes"},
		{"Go 1.22 -- What's New?", "go-1-22-what-s-new"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q; want %q", tc.title, got, tc.want)
		}
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("a", 99) + " b")
	if len(got) > maxSlugLength {
		t.Fatalf("len(Slugify) = %d; want <= %d", len(got), maxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("Slugify left a trailing dash: %q", got)
	}
	if !ValidSlug(got) {
		t.Errorf("Slugify produced invalid slug %q", got)
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"a", "welcome-to-my-blog", "v2", "2024-recap"}
	invalid := []string{"", "-a", "a-", "a--b", "A", "a b", "a_b", strings.Repeat("a", 101)}

	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false; want true", s)
		}
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true; want false", s)
		}
	}
}
