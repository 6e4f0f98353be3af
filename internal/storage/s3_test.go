package storage

import "testing"

func TestObjectKeyStaysInUserNamespace(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"clip.mp4", "clips/u1/clip.mp4"},
		{"../../etc/passwd", "clips/u1/passwd"},
		{"/absolute/path/video.mov", "clips/u1/video.mov"},
		{`windows\style\clip.mp4`, "clips/u1/clip.mp4"},
		{"", "clips/u1/upload"},
		{".", "clips/u1/upload"},
		{"nested/dir/clip.webm", "clips/u1/clip.webm"},
	}
	for _, tc := range cases {
		if got := ObjectKey("u1", tc.filename); got != tc.want {
			t.Errorf("ObjectKey(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestPublicURLPrefersConfiguredBase(t *testing.T) {
	s := &Store{bucket: "clips", publicBase: "https://cdn.example.com"}
	if got := s.PublicURL("clips/u1/a.mp4"); got != "https://cdn.example.com/clips/u1/a.mp4" {
		t.Fatalf("unexpected public url: %s", got)
	}
}
