package frame

import "fmt"

// A Window is an ordered group of sequenced frames that are derived from one
// logical message. Frame i carries sequence number i.
type Window []*Frame

// NewWindow splits msg into size sequenced frames.
func NewWindow(msg *Frame, size int) Window {
	if size <= 0 {
		panic(fmt.Sprintf("window size must be positive, got %d", size))
	}

	w := make(Window, size)
	for i := range w {
		w[i] = Sequenced(msg, i)
	}

	return w
}

// Size returns the number of frames in the window.
func (w Window) Size() int {
	return len(w)
}

// Frame returns the frame with sequence number seq.
func (w Window) Frame(seq int) *Frame {
	return w[seq]
}
