package worker

import (
	"strings"
)

// Binder substitutes candidates into a template without allocating.
// The message buffer is built once with every placeholder widened to the
// candidate width; Bind only overwrites those regions.
type Binder struct {
	msg     []byte
	offsets []int
	width   int
}

// NewBinder precomputes the message layout for template. Every occurrence of
// placeholder is bound, so the message length is fixed for a given width.
func NewBinder(template string, placeholder byte, width int) *Binder {
	b := &Binder{width: width}
	b.msg = make([]byte, 0, len(template)+strings.Count(template, string([]byte{placeholder}))*(width-1))
	for i := 0; i < len(template); i++ {
		if template[i] != placeholder {
			b.msg = append(b.msg, template[i])
			continue
		}
		b.offsets = append(b.offsets, len(b.msg))
		for j := 0; j < width; j++ {
			b.msg = append(b.msg, '0')
		}
	}
	return b
}

// Bind writes candidate into every placeholder region and returns the message.
// The returned slice aliases the binder's buffer and is only valid until the next call.
func (b *Binder) Bind(candidate []byte) []byte {
	for _, off := range b.offsets {
		copy(b.msg[off:off+b.width], candidate)
	}
	return b.msg
}

// Len returns the byte length of every bound message
func (b *Binder) Len() int {
	return len(b.msg)
}

// Substitute is the allocating form of Bind. The placeholder is a raw byte,
// not a rune, so it agrees with Bind for bytes >= 0x80.
func Substitute(template string, placeholder byte, candidate string) string {
	return strings.ReplaceAll(template, string([]byte{placeholder}), candidate)
}
