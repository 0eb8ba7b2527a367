package tui

func (v *Vterm) MaxOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.maxOffset()
}

var Levels = levels
