package servo

// Mode selects how far the potentiometer swings the servo.
type Mode uint32

const (
	ModeWide   Mode = iota // about ±180° over the pot range (default)
	ModeMedium             // about ±90°
	ModeNarrow             // about ±30°

	modeCount
)

// Next returns the mode selected by one more button press
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// Valid reports whether m is one of the three modes
func (m Mode) Valid() bool {
	return m < modeCount
}

func (m Mode) String() string {
	switch m {
	case ModeWide:
		return "wide"
	case ModeMedium:
		return "medium"
	case ModeNarrow:
		return "narrow"
	default:
		return "invalid"
	}
}
