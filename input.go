package webviewruntime

// MouseEventKind discriminates pointer events delivered to a view.
type MouseEventKind uint8

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMove
	MouseWheel
	MouseLeave
)

// MouseButton identifies which pointer button an event refers to.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// ScrollUnit discriminates wheel delta units.
type ScrollUnit uint8

const (
	// ScrollLines means Y counts text lines (typically multiplied by a
	// line height by the backend).
	ScrollLines ScrollUnit = iota
	// ScrollPixels means Y is already in pixels.
	ScrollPixels
)

// ScrollDelta is a wheel movement.
type ScrollDelta struct {
	Unit ScrollUnit
	X    float32
	Y    float32
}

// MouseEvent is a pointer event in view-local coordinates.
type MouseEvent struct {
	Kind   MouseEventKind
	Button MouseButton
	Pos    Point
	Scroll ScrollDelta
}

// KeyMods is a bitmask of active keyboard modifiers.
type KeyMods uint8

const (
	ModShift KeyMods = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Command reports whether the platform command modifier is held
// (Super on macOS, Ctrl elsewhere is up to the host to map).
func (m KeyMods) Command() bool {
	return m&(ModCtrl|ModSuper) != 0
}

// KeyEvent is a keyboard event delivered to a view.
type KeyEvent struct {
	// Rune is the character produced, or 0 for named keys.
	Rune rune
	// Name is the key name for non-character keys ("enter", "tab", ...).
	Name string
	Mods KeyMods
}
