package wire

import (
	"encoding/binary"
	"fmt"

	"sealwire/internal/domain"
)

const (
	// CurrentVersion is the ratchet message format version.
	CurrentVersion = 3
	// SealedVersion is the sealed-sender envelope version.
	SealedVersion = 1

	// SignalMacSize is the truncated MAC length on SignalMessages.
	SignalMacSize = 8
	// SealedMacSize is the MAC length on sealed-sender envelopes.
	SealedMacSize = 10
)

// packVersion packs (message version, current supported version) into
// the leading byte.
func packVersion(v uint8) byte { return v<<4 | CurrentVersion }

// unpackVersion extracts the message version from a leading byte and
// rejects versions this implementation cannot speak.
func unpackVersion(b byte) (uint8, error) {
	v := b >> 4
	if v != CurrentVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidMessage, v)
	}
	return v, nil
}

// reader is a bounds-checked cursor over one message buffer.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated %s", domain.ErrInvalidMessage, what)
	}
}

func (r *reader) byte(what string) byte {
	if r.err != nil {
		return 0
	}
	if r.off+1 > len(r.buf) {
		r.fail(what)
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}

func (r *reader) uint32(what string) uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.buf) {
		r.fail(what)
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) uint64(what string) uint64 {
	if r.err != nil {
		return 0
	}
	if r.off+8 > len(r.buf) {
		r.fail(what)
		return 0
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) fixed(out []byte, what string) {
	if r.err != nil {
		return
	}
	if r.off+len(out) > len(r.buf) {
		r.fail(what)
		return
	}
	copy(out, r.buf[r.off:])
	r.off += len(out)
}

// framed reads a u32 length prefix and that many bytes.
func (r *reader) framed(what string) []byte {
	n := r.uint32(what)
	if r.err != nil {
		return nil
	}
	if uint64(r.off)+uint64(n) > uint64(len(r.buf)) {
		r.fail(what)
		return nil
	}
	out := append([]byte(nil), r.buf[r.off:r.off+int(n)]...)
	r.off += int(n)
	return out
}

// rest returns the remaining bytes less a reserved tail.
func (r *reader) rest(tail int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < tail {
		r.fail(what)
		return nil
	}
	out := append([]byte(nil), r.buf[r.off:len(r.buf)-tail]...)
	r.off = len(r.buf) - tail
	return out
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d trailing bytes", domain.ErrInvalidMessage, len(r.buf)-r.off)
	}
	return nil
}

// writer accumulates one message buffer.
type writer struct {
	buf []byte
}

func (w *writer) byte(b byte)  { w.buf = append(w.buf, b) }
func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) framed(b []byte) {
	w.uint32(uint32(len(b)))
	w.raw(b)
}
