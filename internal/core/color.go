package core

// Color is the foreground color of one screen cell, drawn from the ANSI
// 256-color range the renderer maps to lipgloss styles.
type Color uint8

// The block palette (bright red/blue/green/yellow for the four block
// colors, gray for garbage) plus the chrome colors used by menus and
// borders.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)
