package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗ ██████╗  █████╗ ████████╗███████╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██╔════╝ ██╔══██╗╚══██╔══╝██╔════╝
 ██║   ██║██║   ██║██║  ███╔╝ ██║  ███╗███████║   ██║   █████╗
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██║   ██║██╔══██║   ██║   ██╔══╝
 ╚██████╔╝╚██████╔╝██║███████╗╚██████╔╝██║  ██║   ██║   ███████╗
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝`

const bannerCompact = "Q U I Z G A T E"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 66

// RenderBanner returns the banner styled in the primary color, falling
// back to spaced letters on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
