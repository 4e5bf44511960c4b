package components

import (
	"strings"

	"github.com/ladleapp/ladle/internal/tui/styles"
)

// Stars renders a 1-5 star control. Moving the cursor over it previews a
// value; the preview always wins over the resolved value until the cursor
// leaves, mirroring how a pointer hover behaves.
type Stars struct {
	hover int // 0 when the cursor is not on the control
}

// NewStars creates an idle star control.
func NewStars() *Stars {
	return &Stars{}
}

// Hover returns the star currently under the cursor, 0 when none.
func (s *Stars) Hover() int {
	return s.hover
}

// MoveLeft shifts the preview one star down, stopping at 1.
func (s *Stars) MoveLeft() {
	if s.hover > 1 {
		s.hover--
	} else if s.hover == 0 {
		s.hover = 1
	}
}

// MoveRight shifts the preview one star up, stopping at 5.
func (s *Stars) MoveRight() {
	if s.hover < 5 {
		s.hover++
	}
}

// Leave clears the preview; the display falls back to the resolved value.
func (s *Stars) Leave() {
	s.hover = 0
}

// View renders the control for the given resolved value. The hover preview,
// when present, is what the caller should already have resolved into value.
func (s *Stars) View(value int, hovering bool) string {
	var b strings.Builder

	for star := 1; star <= 5; star++ {
		glyph := "☆"
		if star <= value {
			glyph = "★"
		}

		switch {
		case hovering && star <= value:
			b.WriteString(styles.StarHoverStyle.Render(glyph))
		case star <= value:
			b.WriteString(styles.StarFilledStyle.Render(glyph))
		default:
			b.WriteString(styles.StarEmptyStyle.Render(glyph))
		}
	}

	return b.String()
}
