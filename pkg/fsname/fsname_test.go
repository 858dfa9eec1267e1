package fsname

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "plain title",
			title: "My Bookmarks",
			want:  "my-bookmarks",
		},
		{
			name:  "punctuation dropped",
			title: "Report: Q3 (final)!",
			want:  "report-q3-final",
		},
		{
			name:  "accents folded",
			title: "Héllo Wörld",
			want:  "hello-world",
		},
		{
			name:  "path separators dropped",
			title: "a/b\\c",
			want:  "abc",
		},
		{
			name:  "whitespace collapsed",
			title: "  too   many\tspaces  ",
			want:  "too-many-spaces",
		},
		{
			name:  "empty becomes untitled",
			title: "",
			want:  "untitled",
		},
		{
			name:  "symbols only becomes untitled",
			title: "!!! ???",
			want:  "untitled",
		},
		{
			name:  "reserved device name",
			title: "CON",
			want:  "untitled",
		},
		{
			name:  "underscores kept",
			title: "snake_case_title",
			want:  "snake_case_title",
		},
		{
			name:  "non-latin script dropped to untitled",
			title: "日本語",
			want:  "untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugTruncation(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := Slug(long)
	if len(got) != 200 {
		t.Errorf("Slug length = %d, want 200", len(got))
	}
}

func TestAllocatorClaim(t *testing.T) {
	a := NewAllocator()
	if got := a.Claim("report"); got != "report" {
		t.Errorf("first Claim = %q, want report", got)
	}
	if got := a.Claim("report"); got != "report-2" {
		t.Errorf("second Claim = %q, want report-2", got)
	}
	if got := a.Claim("report"); got != "report-3" {
		t.Errorf("third Claim = %q, want report-3", got)
	}
	// A fresh allocator starts over: the used-name set is per container.
	b := NewAllocator()
	if got := b.Claim("report"); got != "report" {
		t.Errorf("fresh allocator Claim = %q, want report", got)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	name := WithKey(7, "report.ffurl")
	if name != "007__report.ffurl" {
		t.Errorf("WithKey = %q, want 007__report.ffurl", name)
	}
	key, rest, ok := SplitKey(name)
	if !ok || key != 7 || rest != "report.ffurl" {
		t.Errorf("SplitKey(%q) = (%d, %q, %v)", name, key, rest, ok)
	}
}

func TestSplitKeyWithoutPrefix(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "plain name", entry: "report.ffurl"},
		{name: "root directory", entry: "menu"},
		{name: "double underscore without digits", entry: "__info__.ffcontainer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, rest, ok := SplitKey(tt.entry); ok || rest != tt.entry {
				t.Errorf("SplitKey(%q) = (_, %q, %v), want no key", tt.entry, rest, ok)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		entryName string
		title     string
		want      bool
	}{
		{
			name:      "unchanged name",
			entryName: "003__my-report.ffurl",
			title:     "My Report",
			want:      true,
		},
		{
			name:      "collision suffix still matches",
			entryName: "004__my-report-2.ffurl",
			title:     "My Report",
			want:      true,
		},
		{
			name:      "renamed by user",
			entryName: "003__work-stuff.ffurl",
			title:     "My Report",
			want:      false,
		},
		{
			name:      "directory without extension",
			entryName: "001__projects",
			title:     "Projects",
			want:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.entryName, tt.title); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.entryName, tt.title, got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if got := Hint("003__my-report-2.ffurl"); got != "my-report" {
		t.Errorf("Hint = %q, want my-report", got)
	}
	if got := Hint("010__projects"); got != "projects" {
		t.Errorf("Hint = %q, want projects", got)
	}
}
