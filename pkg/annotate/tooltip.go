package annotate

// PointerTarget says what a pointer interaction landed on.
type PointerTarget string

const (
	TargetFlagged PointerTarget = "segment"
	TargetTooltip PointerTarget = "tooltip"
	TargetOutside PointerTarget = "outside"
)

// PointerEvent is a pointer interaction in viewport coordinates. Segment is
// the index into the last rendered segment list when Target is TargetFlagged.
type PointerEvent struct {
	Target  PointerTarget `json:"target"`
	Segment int           `json:"segment"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
}

// TooltipState is either hidden (the zero value) or visible at a position.
type TooltipState struct {
	Visible bool    `json:"visible"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Hidden is the tooltip state with nothing shown.
var Hidden = TooltipState{}

// NextTooltip applies one pointer event. content is the tooltip text resolved
// for the flagged segment and is ignored for other targets. Showing a tooltip
// replaces whatever was visible.
func NextTooltip(cur TooltipState, ev PointerEvent, content string) TooltipState {
	switch ev.Target {
	case TargetFlagged:
		return TooltipState{
			Visible: true,
			Content: content,
			X:       ev.X,
			Y:       ev.Y,
		}
	case TargetTooltip:
		return cur
	default:
		return Hidden
	}
}
