package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/ui/theme"
)

const bannerArt = ` █      █████   ███   ████   █   █  █████   ███    ███   █
 █      █      █   █  █   █  ██  █    █    █   █  █   █  █
 █      ████   █████  ████   █ █ █    █    █   █  █   █  █
 █      █      █   █  █  █   █  ██    █    █   █  █   █  █
 █████  █████  █   █  █   █  █   █    █     ███    ███   █████`

const bannerCompact = "L E A R N T O O L"

// bannerWidth is the display width of bannerArt.
const bannerWidth = 64

// RenderBanner returns the banner in the primary color, or a compact
// one-line version when width cannot fit the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
