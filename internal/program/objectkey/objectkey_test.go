package objectkey

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a UUID, got %s: %v", id, err)
	}

	if id == NewID() {
		t.Error("expected different IDs for consecutive calls")
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestFileNameAndKey(t *testing.T) {
	tests := []struct {
		name     string
		original string
		prefix   string
		want     string
	}{
		{"video", "video.mp4", VideoPrefix, "video/abc_video.mp4"},
		{"json", "data.json", JSONPrefix, "json/abc_data.json"},
		{"strips directories", "uploads/2024/data.json", JSONPrefix, "json/abc_data.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.prefix, FileName("abc", tt.original))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
