package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical demo action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionLookLeft
	ActionLookRight
	ActionLookUp
	ActionLookDown
	ActionToggleOverlay
	ActionCycleDecal
	ActionRemoveDecal
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Manager maps keys to actions and tracks per-frame edges
type Manager struct {
	mu sync.RWMutex

	// one key can map to multiple actions
	keyToActions map[glfw.Key][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
}

// NewManager creates a Manager with the default demo bindings
func NewManager() *Manager {
	m := &Manager{
		keyToActions: make(map[glfw.Key][]Action),
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftShift, ActionMoveDown)
	m.BindKey(glfw.KeyLeft, ActionLookLeft)
	m.BindKey(glfw.KeyRight, ActionLookRight)
	m.BindKey(glfw.KeyUp, ActionLookUp)
	m.BindKey(glfw.KeyDown, ActionLookDown)
	m.BindKey(glfw.KeyF, ActionToggleOverlay)
	m.BindKey(glfw.KeyT, ActionCycleDecal)
	m.BindKey(glfw.KeyR, ActionRemoveDecal)
	m.BindKey(glfw.KeyEscape, ActionQuit)

	return m
}

// BindKey binds a physical key to a logical action
func (m *Manager) BindKey(key glfw.Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keyToActions, key)
}

// HandleKeyEvent updates action state from a GLFW key event
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, exists := m.keyToActions[key]
	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		if isPressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		m.currentState[act] = isPressed
	}
}

// SetKeyCallback routes the window's key events to the manager
func (m *Manager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears the edge flags; call it once at the end of each frame
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.justPressed[:])
}

// IsActive returns true while the action is held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState[action]
}

// JustPressed returns true only in the frame the action was pressed
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justPressed[action]
}
