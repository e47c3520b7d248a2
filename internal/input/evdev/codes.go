package evdev

// Linux input event types.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03
)

// Synchronization codes.
const (
	SynReport  uint16 = 0
	SynDropped uint16 = 3
)

// Relative axis codes.
const (
	RelX      uint16 = 0x00
	RelY      uint16 = 0x01
	RelHWheel uint16 = 0x06
	RelWheel  uint16 = 0x08
)

// Absolute axis codes.
const (
	AbsX uint16 = 0x00
	AbsY uint16 = 0x01
)

// Key codes referenced by classification and the built-in keymap.
const (
	KeyEsc        uint16 = 1
	KeyBackspace  uint16 = 14
	KeyTab        uint16 = 15
	KeyEnter      uint16 = 28
	KeyLeftCtrl   uint16 = 29
	KeyLeftShift  uint16 = 42
	KeyRightShift uint16 = 54
	KeyLeftAlt    uint16 = 56
	KeySpace      uint16 = 57
	KeyF1         uint16 = 59
	KeyF2         uint16 = 60
	KeyF10        uint16 = 68
	KeyF11        uint16 = 87
	KeyF12        uint16 = 88
	KeyRightCtrl  uint16 = 97
	KeyRightAlt   uint16 = 100
	KeyLeftMeta   uint16 = 125
	KeyRightMeta  uint16 = 126
)

// Button code ranges. Codes inside [BtnMisc, BtnGearUp] or at and above
// BtnTriggerHappy are pointer/joystick buttons; everything else on EV_KEY
// is a keyboard key.
const (
	BtnMisc         uint16 = 0x100
	BtnMouse        uint16 = 0x110
	BtnGearUp       uint16 = 0x151
	BtnTriggerHappy uint16 = 0x2c0
)

// isButtonCode reports whether an EV_KEY code is a button rather than a key.
func isButtonCode(code uint16) bool {
	return (code >= BtnMisc && code <= BtnGearUp) || code >= BtnTriggerHappy
}
