package graph

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	aferrors "github.com/matzehuels/afgraph/pkg/errors"
)

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		label   string
		want    []string
		wantErr bool
	}{
		{"red", []string{"red"}, false},
		{"red+green+blue", []string{"red", "green", "blue"}, false},
		{"", nil, true},
		{"red++blue", nil, true},
		{"red+", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := SplitLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitLabel(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestEdgeLabelsReportsEndpoints(t *testing.T) {
	_, err := Edge{Source: "a", Target: "b"}.Labels()

	var el *EmptyLabelError
	if !errors.As(err, &el) {
		t.Fatalf("Labels() error = %v, want *EmptyLabelError", err)
	}
	if el.Source != "a" || el.Target != "b" {
		t.Errorf("EmptyLabelError endpoints = %s -> %s", el.Source, el.Target)
	}
	if !aferrors.Is(err, aferrors.ErrCodeEmptyLabel) {
		t.Errorf("code = %v, want %v", aferrors.GetCode(err), aferrors.ErrCodeEmptyLabel)
	}
}

func TestJoinLabels(t *testing.T) {
	if got := JoinLabels("red", "green"); got != "red+green" {
		t.Errorf("JoinLabels() = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		label   string
		want    color.RGBA
		wantErr bool
	}{
		{"red", color.RGBA{0xff, 0, 0, 0xff}, false},
		{"Green", color.RGBA{0, 0x80, 0, 0xff}, false},
		{"skyblue", color.RGBA{0x87, 0xce, 0xeb, 0xff}, false},
		{"#00f", color.RGBA{0, 0, 0xff, 0xff}, false},
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 0xff}, false},
		{"overlap", color.RGBA{}, true},
		{"#12", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseColor(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if err != nil && !aferrors.Is(err, aferrors.ErrCodeUnknownColor) {
				t.Errorf("ParseColor(%q) code = %v", tt.label, aferrors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestHexColor(t *testing.T) {
	if got := HexColor(color.RGBA{0xff, 0x80, 0x00, 0xff}); got != "#ff8000" {
		t.Errorf("HexColor() = %q", got)
	}
}
