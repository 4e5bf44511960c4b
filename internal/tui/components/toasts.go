package components

import (
	"strings"

	"github.com/ladleapp/ladle/internal/notify"
	"github.com/ladleapp/ladle/internal/tui/styles"
)

// Toasts renders the active notifications from a notify.Center, one per
// line, newest last. Expired toasts disappear on the next render.
type Toasts struct {
	center *notify.Center
}

// NewToasts creates a toast area backed by the given center.
func NewToasts(center *notify.Center) *Toasts {
	return &Toasts{center: center}
}

// View renders the currently active notifications.
func (t *Toasts) View() string {
	active := t.center.Active()
	if len(active) == 0 {
		return ""
	}

	lines := make([]string, 0, len(active))
	for _, item := range active {
		switch item.Level {
		case notify.LevelSuccess:
			lines = append(lines, styles.ToastSuccessStyle.Render("✓ "+item.Message))
		case notify.LevelError:
			lines = append(lines, styles.ToastErrorStyle.Render("✗ "+item.Message))
		default:
			lines = append(lines, styles.ToastInfoStyle.Render("· "+item.Message))
		}
	}

	return strings.Join(lines, "\n")
}
