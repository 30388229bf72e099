package core

// Color is a foreground color for a screen cell. The platform maps each one
// to a terminal color.
type Color uint8

// Screen colors. The six block colors line up with the playable board
// colors; the rest are for chrome.
const (
	ColorDefault Color = iota
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
	ColorGray
	ColorDim
	ColorWhite
	ColorHighlight
	ColorDanger
)
