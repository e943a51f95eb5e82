package fonts

import "testing"

func TestFaces(t *testing.T) {
	bold, err := BoldFace(14)
	if err != nil {
		t.Fatalf("BoldFace() error: %v", err)
	}
	regular, err := RegularFace(10)
	if err != nil {
		t.Fatalf("RegularFace() error: %v", err)
	}

	if bold.Metrics().Height <= regular.Metrics().Height {
		t.Errorf("14pt face height %v should exceed 10pt face height %v",
			bold.Metrics().Height, regular.Metrics().Height)
	}
	if _, ok := bold.GlyphAdvance('A'); !ok {
		t.Error("bold face has no glyph for 'A'")
	}
}
