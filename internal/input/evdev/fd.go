package evdev

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawEventSize is the size of a struct input_event on 64-bit Linux:
// two 64-bit timestamp words, type, code, value.
const rawEventSize = 24

// evdev ioctl numbers. EVIOCGBIT(type, len) reads the capability bitmap for
// one event type; EVIOCGNAME reads the device name.
func eviocgbit(typ uint16, length int) uint {
	const iocRead = 2
	return uint(iocRead<<30 | length<<16 | 'E'<<8 | int(0x20+typ))
}

func eviocgname(length int) uint {
	const iocRead = 2
	return uint(iocRead<<30 | length<<16 | 'E'<<8 | 0x06)
}

// FDReader is a Reader backed by an open evdev device descriptor.
//
// Resynchronization after a kernel buffer overrun is simplified relative to
// libevdev: when SYN_DROPPED arrives the reader reports StatusSync, and
// ReadSync reads then discard everything up to the next SYN_REPORT, at which
// point the stream is considered consistent again.
type FDReader struct {
	fd      int
	name    string
	keyBits []byte
	relBits []byte
	absBits []byte

	buf     []byte
	syncing bool
}

// OpenFD opens the evdev device node at path in nonblocking mode and reads
// its capability bitmaps.
func OpenFD(path string) (*FDReader, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	r := &FDReader{fd: fd}
	if err := r.queryCapabilities(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return r, nil
}

func (r *FDReader) queryCapabilities() error {
	var name [256]byte
	if err := r.ioctl(eviocgname(len(name)), unsafe.Pointer(&name[0])); err != nil {
		return err
	}
	r.name = unix.ByteSliceToString(name[:])

	for _, q := range []struct {
		typ uint16
		dst *[]byte
	}{
		{EvKey, &r.keyBits},
		{EvRel, &r.relBits},
		{EvAbs, &r.absBits},
	} {
		bits := make([]byte, 96)
		if err := r.ioctl(eviocgbit(q.typ, len(bits)), unsafe.Pointer(&bits[0])); err != nil {
			return err
		}
		*q.dst = bits
	}
	return nil
}

func (r *FDReader) ioctl(req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// FD returns the device's file descriptor, for event-loop registration.
func (r *FDReader) FD() int { return r.fd }

// Name returns the device's human-readable name.
func (r *FDReader) Name() string { return r.name }

// HasEventCode reports whether the device advertises the given capability.
func (r *FDReader) HasEventCode(typ, code uint16) bool {
	var bits []byte
	switch typ {
	case EvKey:
		bits = r.keyBits
	case EvRel:
		bits = r.relBits
	case EvAbs:
		bits = r.absBits
	default:
		return false
	}
	byteIdx := int(code / 8)
	if byteIdx >= len(bits) {
		return false
	}
	return bits[byteIdx]&(1<<(code%8)) != 0
}

// Next returns the next buffered event, refilling from the descriptor as
// needed.
func (r *FDReader) Next(mode ReadMode) (RawEvent, Status, error) {
	if mode == ReadSync && !r.syncing {
		return RawEvent{}, StatusOK, ErrNoEvents
	}

	ev, ok, err := r.nextRaw()
	if err != nil || !ok {
		return RawEvent{}, StatusOK, err
	}

	if mode == ReadSync {
		if ev.Type == EvSyn && ev.Code == SynReport {
			r.syncing = false
			return RawEvent{}, StatusOK, ErrNoEvents
		}
		return ev, StatusSync, nil
	}

	if ev.Type == EvSyn && ev.Code == SynDropped {
		r.syncing = true
		return ev, StatusSync, nil
	}
	return ev, StatusOK, nil
}

// nextRaw decodes one event from the buffer, reading more bytes from the
// descriptor when the buffer runs dry. The second result is false when no
// complete event is available.
func (r *FDReader) nextRaw() (RawEvent, bool, error) {
	if len(r.buf) < rawEventSize {
		var chunk [rawEventSize * 32]byte
		n, err := unix.Read(r.fd, chunk[:])
		if n > 0 {
			r.buf = append(r.buf, chunk[:n]...)
		}
		if err == unix.EAGAIN || (err == nil && n == 0) {
			if len(r.buf) < rawEventSize {
				return RawEvent{}, false, ErrNoEvents
			}
		} else if err != nil {
			return RawEvent{}, false, err
		}
	}
	if len(r.buf) < rawEventSize {
		return RawEvent{}, false, ErrNoEvents
	}

	b := r.buf[:rawEventSize]
	r.buf = r.buf[rawEventSize:]

	ev := RawEvent{
		Sec:   int64(binary.LittleEndian.Uint64(b[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(b[8:16])),
		Type:  binary.LittleEndian.Uint16(b[16:18]),
		Code:  binary.LittleEndian.Uint16(b[18:20]),
		Value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}
	return ev, true, nil
}

// Close closes the underlying descriptor.
func (r *FDReader) Close() error {
	return unix.Close(r.fd)
}
