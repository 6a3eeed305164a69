package player

import (
	"fmt"
	"strings"
)

var keyNames = map[Key]string{
	KeyUnknown: "unknown",
	KeySpace:   "space",
	KeyEscape:  "escape",
	KeyEnter:   "enter",
	KeyP:       "p",
	KeyQ:       "q",
}

// String returns the lower case name of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}

	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey returns the key with the given name, case insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "esc" {
		name = "escape"
	}

	for key, keyName := range keyNames {
		if key != KeyUnknown && keyName == name {
			return key, nil
		}
	}

	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowClose:
		return "window_close"
	case EventKeyDown:
		return "key_down"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}
