package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to actions for Player1.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	// Game/menu actions
	switch key {
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "w", "up":
		return core.ActionRotateCW, false
	case "z":
		return core.ActionRotateCCW, false
	case "x", "tab":
		return core.ActionFlip, false
	case "s", "down":
		return core.ActionSoftDrop, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapKeyPlayer1 translates a key message to actions on the letters-only
// Player1 key set used in local two-player battles, where the arrow block
// belongs to Player2.
func (km *KeyMapper) MapKeyPlayer1(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "a":
		return core.ActionLeft
	case "d":
		return core.ActionRight
	case "w":
		return core.ActionRotateCW
	case "z":
		return core.ActionRotateCCW
	case "x":
		return core.ActionFlip
	case "s":
		return core.ActionSoftDrop
	case "p":
		return core.ActionPause
	case "r":
		return core.ActionRestart
	}
	return core.ActionNone
}

// MapKeyPlayer2 translates a key message to actions on the Player2 key set,
// used for local two-player battles. Player2 plays on the arrow block plus
// the ,/. rotation keys so the sets don't overlap.
func (km *KeyMapper) MapKeyPlayer2(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "left":
		return core.ActionLeft
	case "right":
		return core.ActionRight
	case "up":
		return core.ActionRotateCW
	case ",":
		return core.ActionRotateCCW
	case ".":
		return core.ActionFlip
	case "down":
		return core.ActionSoftDrop
	}
	return core.ActionNone
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMultiFrame updates a multi-input frame for Player1 based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		p1 := frame.Player(multiplayer.Player1)
		p1.Set(action)
		frame.SetPlayer(multiplayer.Player1, p1)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "h":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
