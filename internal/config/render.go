package config

import "sync"

// RenderSettings holds runtime render toggles
type RenderSettings struct {
	mu             sync.RWMutex
	overlayVisible bool
	lineWidth      float32
}

var globalRenderSettings = &RenderSettings{
	overlayVisible: true,
	lineWidth:      2,
}

// OverlayVisible reports whether decals, planes and outlines are drawn
func OverlayVisible() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.overlayVisible
}

// SetOverlayVisible shows or hides every overlay
func SetOverlayVisible(visible bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.overlayVisible = visible
}

// ToggleOverlay flips overlay visibility and returns the new state
func ToggleOverlay() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.overlayVisible = !globalRenderSettings.overlayVisible
	return globalRenderSettings.overlayVisible
}

// GetLineWidth returns the outline line width in pixels
func GetLineWidth() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.lineWidth
}

// SetLineWidth sets the outline line width
func SetLineWidth(width float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// core profiles only guarantee a width of 1
	if width < 1 {
		width = 1
	}
	if width > 8 {
		width = 8
	}

	globalRenderSettings.lineWidth = width
}
