package editor

import (
	"bufio"
	"unicode"

	"github.com/abiosoft/readline"
)

// Key identifies a decoded terminal input event.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyTab
	KeyInterrupt
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	case KeyEnter:
		return "Enter"
	case KeyBackspace:
		return "Backspace"
	case KeyTab:
		return "Tab"
	case KeyInterrupt:
		return "Interrupt"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyRight:
		return "Right"
	case KeyLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Event is a single key press.
type Event struct {
	Key Key
	// Rune is set for KeyRune events.
	Rune rune
}

// readEvent reads and decodes the next key press.
func readEvent(r *bufio.Reader) (Event, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return Event{}, err
	}

	switch c {
	case readline.CharEnter, readline.CharCtrlJ:
		return Event{Key: KeyEnter}, nil
	case readline.CharBackspace, readline.CharCtrlH:
		return Event{Key: KeyBackspace}, nil
	case readline.CharTab:
		return Event{Key: KeyTab}, nil
	case readline.CharInterrupt:
		return Event{Key: KeyInterrupt}, nil
	case readline.CharEsc:
		return readEscape(r)
	}

	if unicode.IsControl(c) || c == unicode.ReplacementChar {
		return Event{Key: KeyNone}, nil
	}
	return Event{Key: KeyRune, Rune: c}, nil
}

// readEscape decodes the rest of an escape sequence. Only the arrow keys are
// recognized, other sequences are consumed and ignored.
func readEscape(r *bufio.Reader) (Event, error) {
	introducer, err := r.ReadByte()
	if err != nil {
		return Event{}, err
	}

	// SS3 sequences (ESC O x) are sent for arrows in application cursor mode.
	if introducer == 'O' {
		final, err := r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		return Event{Key: arrowKey(final)}, nil
	}

	if introducer != readline.CharEscapeEx {
		return Event{Key: KeyNone}, nil
	}

	// CSI: parameter and intermediate bytes followed by a final byte in
	// 0x40-0x7E.
	params := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		if b >= 0x40 && b <= 0x7e {
			if params > 0 {
				return Event{Key: KeyNone}, nil
			}
			return Event{Key: arrowKey(b)}, nil
		}
		params++
	}
}

func arrowKey(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	default:
		return KeyNone
	}
}
