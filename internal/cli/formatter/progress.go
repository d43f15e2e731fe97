package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderRate renders a completion rate as a bar like [████░░░░] 45%.
// Green from 50% (a streak day), yellow from 25%, red below.
func RenderRate(rate float64, width int) string {
	rate = min(max(rate, 0), 1)
	width = max(width, 2)

	filled := min(int(rate*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case rate < 0.25:
		style = StyleRed
	case rate < 0.5:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), rate*100)
}
