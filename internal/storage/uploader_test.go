package storage

import (
	"strings"
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	now := time.Unix(1756700000, 0)

	tests := []struct {
		name     string
		category string
		filename string
		want     string
	}{
		{
			name:     "plain filename",
			category: "thumbnails",
			filename: "ganesh.jpg",
			want:     "thumbnails/1756700000_ganesh.jpg",
		},
		{
			name:     "path stripped",
			category: "puja-media",
			filename: "../../etc/passwd",
			want:     "puja-media/1756700000_passwd",
		},
		{
			name:     "unsafe characters squashed",
			category: "temples",
			filename: "mandir photo (1).png",
			want:     "temples/1756700000_mandir_photo_1_.png",
		},
		{
			name:     "empty category defaults",
			category: "",
			filename: "a.png",
			want:     "misc/1756700000_a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.category, tt.filename, now); got != tt.want {
				t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.category, tt.filename, got, tt.want)
			}
		})
	}
}

func TestObjectKeyEmptyFilename(t *testing.T) {
	now := time.Unix(1756700000, 0)
	key := ObjectKey("thumbnails", "", now)
	if !strings.HasPrefix(key, "thumbnails/1756700000_") {
		t.Fatalf("ObjectKey = %q, want thumbnails/1756700000_ prefix", key)
	}
	if strings.TrimPrefix(key, "thumbnails/1756700000_") == "" {
		t.Error("empty filename produced an empty object name")
	}
}
