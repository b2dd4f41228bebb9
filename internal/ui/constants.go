package ui

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconError    = "❌"
	IconPending  = "⏳"
	IconStopped  = "⏹"
	IconMusic    = "🎵"
	IconBack     = "←"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	StatusLabelWidth  float32 = 96
	SpeedLabelWidth   float32 = 150
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 64

	WindowWidth  float32 = 860
	WindowHeight float32 = 620
)
