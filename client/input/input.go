// Package input maps terminal keys to board actions.
package input

import (
	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
)

// Binding is the side and action a key controls.
type Binding struct {
	Side   pair.Side
	Action tetris.Action
}

// KeyMap maps bubbletea key strings to bindings.
type KeyMap map[string]Binding

var arrowKeys = map[string]tetris.Action{
	"left":  tetris.ActionMoveLeft,
	"right": tetris.ActionMoveRight,
	"down":  tetris.ActionMoveDown,
	"up":    tetris.ActionRotateLeft,
	" ":     tetris.ActionDrop,
}

var letterKeys = map[string]tetris.Action{
	"a": tetris.ActionMoveLeft,
	"d": tetris.ActionMoveRight,
	"s": tetris.ActionMoveDown,
	"w": tetris.ActionRotateLeft,
	"q": tetris.ActionDrop,
}

// SinglePlayerKeys binds both key sets, plus x for rotating right, to side A.
func SinglePlayerKeys() KeyMap {
	keys := KeyMap{}
	for k, a := range letterKeys {
		keys[k] = Binding{Side: pair.SideA, Action: a}
	}
	for k, a := range arrowKeys {
		keys[k] = Binding{Side: pair.SideA, Action: a}
	}
	keys["x"] = Binding{Side: pair.SideA, Action: tetris.ActionRotateRight}
	return keys
}

// HotSeatKeys gives the arrows to side A and the letters to side B.
func HotSeatKeys() KeyMap {
	keys := KeyMap{}
	for k, a := range arrowKeys {
		keys[k] = Binding{Side: pair.SideA, Action: a}
	}
	for k, a := range letterKeys {
		keys[k] = Binding{Side: pair.SideB, Action: a}
	}
	return keys
}

func (k KeyMap) Lookup(key string) (Binding, bool) {
	b, ok := k[key]
	return b, ok
}

// IsQuit reports whether key should leave the game.
func IsQuit(key string) bool {
	return key == "ctrl+c" || key == "esc"
}
