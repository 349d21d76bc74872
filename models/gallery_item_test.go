package models

import "testing"

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat.png", "cat"},
		{"IMG_1234.HEIC", "IMG_1234"},
		{"no-extension", "no-extension"},
		{"archive.tar.gz", "archive.tar"},
		{"/some/dir/photo.jpg", "photo"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "[]"},
		{"json array", `["ink","portrait"]`, `["ink","portrait"]`},
		{"json array with spaces", `[" ink ", "", "portrait"]`, `["ink","portrait"]`},
		{"csv", "ink, portrait,sketch", `["ink","portrait","sketch"]`},
		{"csv with empties", "ink,, ,portrait", `["ink","portrait"]`},
		{"single word", "ink", `["ink"]`},
		{"bad json falls back to csv", `["broken`, `["[\"broken"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); got != tt.want {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
