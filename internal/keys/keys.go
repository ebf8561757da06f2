// Package keys encodes a tcell key event's (modifiers, key) pair into a
// single comparable value, so bindings tables can switch on it directly.
// Ported from up.go's key/getKey/ctrlKey/altKey helpers.
package keys

import "github.com/gdamore/tcell"

// Key is a modifiers<<16 | key encoding of a tcell key event.
type Key int32

// Of encodes ev's actual modifiers and key.
func Of(ev *tcell.EventKey) Key {
	return Key(ev.Modifiers())<<16 + Key(ev.Key())
}

// Plain encodes base with no modifiers.
func Plain(base tcell.Key) Key {
	return Key(base)
}

// Ctrl encodes base with the control modifier.
func Ctrl(base tcell.Key) Key {
	return Key(tcell.ModCtrl)<<16 + Key(base)
}

// Alt encodes base with the alt modifier.
func Alt(base tcell.Key) Key {
	return Key(tcell.ModAlt)<<16 + Key(base)
}

// CtrlLetter returns the tcell control-key code for Ctrl+letter, where
// letter is 'a'..'z'. tcell reports these as distinct KeyCtrlA..KeyCtrlZ
// constants rather than as modified runes, so this maps the common case
// callers need when building a binding table from a letter.
func CtrlLetter(letter rune) tcell.Key {
	return tcell.Key(int(tcell.KeyCtrlA) + int(letter-'a'))
}
