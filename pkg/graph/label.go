package graph

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/afgraph/pkg/errors"
)

// LabelDelimiter joins elementary labels into a composite label.
const LabelDelimiter = "+"

// EmptyLabelError reports an edge whose composite label yields an empty
// elementary label. It means the graph producer broke the label contract.
type EmptyLabelError struct {
	Source string // Edge source, empty when unknown
	Target string // Edge target, empty when unknown
	Label  string // Offending composite label
}

// Error implements the error interface.
func (e *EmptyLabelError) Error() string {
	if e.Source == "" && e.Target == "" {
		return fmt.Sprintf("empty elementary label in %q", e.Label)
	}
	return fmt.Sprintf("edge %s -> %s: empty elementary label in %q", e.Source, e.Target, e.Label)
}

// Code returns the error code for this error type.
func (e *EmptyLabelError) Code() errors.Code { return errors.ErrCodeEmptyLabel }

// SplitLabel splits a composite label into its elementary labels, in order.
// An empty composite label, or one with an empty part such as "red++blue",
// returns an *EmptyLabelError.
func SplitLabel(label string) ([]string, error) {
	parts := strings.Split(label, LabelDelimiter)
	for _, p := range parts {
		if p == "" {
			return nil, &EmptyLabelError{Label: label}
		}
	}
	return parts, nil
}

// JoinLabels joins elementary labels into a composite label.
func JoinLabels(labels ...string) string {
	return strings.Join(labels, LabelDelimiter)
}

// ParseColor resolves an elementary label to a color.
//
// Labels are SVG/CSS color names ("red", "skyblue"), matched case-insensitively,
// or hex triplets ("#f00", "#ff0000").
func ParseColor(label string) (color.RGBA, error) {
	if strings.HasPrefix(label, "#") {
		return parseHex(label)
	}
	if c, ok := colornames.Map[strings.ToLower(label)]; ok {
		return c, nil
	}
	return color.RGBA{}, errors.New(errors.ErrCodeUnknownColor, "label %q is not a color name", label)
}

func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	b, err := hex.DecodeString(h)
	if err != nil || len(b) != 3 {
		return color.RGBA{}, errors.New(errors.ErrCodeUnknownColor, "label %q is not a hex color", s)
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
