package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "Boardroom", "Boardroom"},
		{"leading and trailing spaces", "  Boardroom  ", "Boardroom"},
		{"internal run of spaces", "Board   Room", "Board Room"},
		{"tabs and newlines", "Board\t\nRoom", "Board Room"},
		{"only whitespace", "  \t\n ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeAmenity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces and punctuation", "Video Conf.", "video_conf"},
		{"hyphenated", "video-conf", "video_conf"},
		{"mixed case", "WhiteBoard", "whiteboard"},
		{"surrounding noise", "  --Projector--  ", "projector"},
		{"digits kept", "HDMI 2", "hdmi_2"},
		{"punctuation only", "---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAmenity(tt.input); got != tt.expected {
				t.Errorf("SanitizeAmenity(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeAmenities(t *testing.T) {
	input := []string{"Video Conf.", "video-conf", "  Whiteboard ", "", "---"}
	got := NormalizeAmenities(input)

	expected := []string{"video_conf", "whiteboard"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("NormalizeAmenities(%v) = %v, expected %v", input, got, expected)
	}
}

func TestNormalizeAmenities_Nil(t *testing.T) {
	got := NormalizeAmenities(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestNormalizeNotes_PreservesLineBreaks(t *testing.T) {
	got := NormalizeNotes("  First line\nSecond line  ")
	expected := "First line\nSecond line"
	if got != expected {
		t.Errorf("NormalizeNotes = %q, expected %q", got, expected)
	}
}
