// Package frame defines the unit of data that devices exchange over a medium.
//
// A frame carries text in the form "<destination>: <payload>". Switches read
// the destination label from the text, so producers that do not follow the
// convention get their frames flooded.
package frame

import (
	"fmt"
	"strings"

	"github.com/sarchlab/linksim/sim"
)

// Separator splits the destination label from the payload.
const Separator = ":"

// NoSeq marks a frame that is not part of an ARQ window.
const NoSeq = -1

// A Frame is an immutable payload unit.
type Frame struct {
	id      string
	content string
	seq     int
}

// New creates a frame that carries the given text as is.
func New(content string) *Frame {
	return &Frame{
		id:      sim.GetIDGenerator().Generate(),
		content: content,
		seq:     NoSeq,
	}
}

// Compose creates a frame addressed to dst.
func Compose(dst, payload string) *Frame {
	return New(dst + Separator + " " + payload)
}

// ID returns the unique ID of the frame.
func (f *Frame) ID() string {
	return f.id
}

// Content returns the text that travels on the medium.
func (f *Frame) Content() string {
	return f.content
}

// Seq returns the sequence number of the frame, or NoSeq.
func (f *Frame) Seq() int {
	return f.seq
}

// Sequenced tells if the frame belongs to an ARQ window.
func (f *Frame) Sequenced() bool {
	return f.seq != NoSeq
}

// Destination parses the destination label. The boolean is false if the
// content has no separator, in which case the destination is unknown.
func (f *Frame) Destination() (string, bool) {
	return ParseDestination(f.content)
}

// Payload returns the text after the separator, or the whole content if the
// separator is missing.
func (f *Frame) Payload() string {
	idx := strings.Index(f.content, Separator)
	if idx < 0 {
		return f.content
	}

	return strings.TrimSpace(f.content[idx+len(Separator):])
}

// String returns the content of the frame.
func (f *Frame) String() string {
	return f.content
}

// ParseDestination extracts the destination label from a frame text.
func ParseDestination(content string) (string, bool) {
	idx := strings.Index(content, Separator)
	if idx < 0 {
		return "", false
	}

	return strings.TrimSpace(content[:idx]), true
}

// Sequenced creates the frame that carries sequence number seq of msg.
func Sequenced(msg *Frame, seq int) *Frame {
	if seq < 0 {
		panic(fmt.Sprintf("invalid sequence number %d", seq))
	}

	return &Frame{
		id:      sim.GetIDGenerator().Generate(),
		content: fmt.Sprintf("%s (Sequence #%d)", msg.content, seq),
		seq:     seq,
	}
}

// Numbered creates a frame that carries the content of msg unchanged under
// sequence number seq. Stop-and-Wait sends its single frame this way.
func Numbered(msg *Frame, seq int) *Frame {
	if seq < 0 {
		panic(fmt.Sprintf("invalid sequence number %d", seq))
	}

	return &Frame{
		id:      sim.GetIDGenerator().Generate(),
		content: msg.content,
		seq:     seq,
	}
}
