// Package eventloop implements the single-threaded event loop that drives
// waycore. File-descriptor sources (input devices, hardware notification
// channels, the control socket) are multiplexed with epoll; deferred "idle"
// tasks run after all currently-ready sources have been serviced and before
// the loop blocks again.
//
// All loop callbacks run to completion on the goroutine that calls Run or
// Dispatch. Post is the only method safe to call from other goroutines.
package eventloop

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/dshills/waycore/internal/logging"
)

// Readiness bits passed to FD handlers.
const (
	Readable uint32 = unix.EPOLLIN
	Writable uint32 = unix.EPOLLOUT
	Hangup   uint32 = unix.EPOLLHUP
)

// Loop errors.
var (
	// ErrClosed is returned when using a loop after Close.
	ErrClosed = errors.New("event loop closed")

	// ErrFDRegistered is returned when adding a file descriptor twice.
	ErrFDRegistered = errors.New("file descriptor already registered")
)

// FDHandler is invoked when a registered file descriptor becomes ready.
type FDHandler func(fd int, events uint32)

// IdleFunc is a deferred task; see AddIdle.
type IdleFunc func()

// Source represents a registered file-descriptor event source.
type Source struct {
	loop *Loop
	fd   int
}

// FD returns the source's file descriptor.
func (s *Source) FD() int { return s.fd }

// Remove unregisters the source from the loop. The descriptor itself is not
// closed; that remains the caller's responsibility.
func (s *Source) Remove() error {
	return s.loop.removeFD(s.fd)
}

// Loop is an epoll-based single-threaded event loop.
type Loop struct {
	epfd    int
	wakeR   int
	wakeW   int
	sources map[int]FDHandler
	idle    []IdleFunc
	log     *logging.Logger

	mu     sync.Mutex // guards posted and closed for cross-goroutine Post
	posted []func()
	closed bool

	stop bool
}

// New creates an event loop.
func New(log *logging.Logger) (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	var pipe [2]int
	if err := unix.Pipe2(pipe[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		unix.Close(epfd)
		return nil, err
	}
	l := &Loop{
		epfd:    epfd,
		wakeR:   pipe[0],
		wakeW:   pipe[1],
		sources: make(map[int]FDHandler),
		log:     log.WithComponent("eventloop"),
	}
	if err := l.watch(l.wakeR); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Loop) watch(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// AddFD registers fd for readability notifications.
func (l *Loop) AddFD(fd int, handler FDHandler) (*Source, error) {
	if _, ok := l.sources[fd]; ok {
		return nil, ErrFDRegistered
	}
	if err := l.watch(fd); err != nil {
		return nil, err
	}
	l.sources[fd] = handler
	return &Source{loop: l, fd: fd}, nil
}

func (l *Loop) removeFD(fd int) error {
	if _, ok := l.sources[fd]; !ok {
		return nil
	}
	delete(l.sources, fd)
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// AddIdle queues fn to run once the loop has no more immediately-ready I/O
// to service this iteration. Tasks run in queue order; a task queued while
// the idle queue is draining runs in the same drain.
func (l *Loop) AddIdle(fn IdleFunc) {
	l.idle = append(l.idle, fn)
}

// Post schedules fn to run on the loop goroutine and wakes the loop if it is
// blocked. Post is safe to call from any goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.posted = append(l.posted, fn)
	l.mu.Unlock()

	var b [1]byte
	_, err := unix.Write(l.wakeW, b[:])
	if err == unix.EAGAIN {
		// Pipe full: a wakeup is already pending.
		err = nil
	}
	return err
}

// Stop makes Run return after the current iteration completes.
func (l *Loop) Stop() {
	l.Post(func() { l.stop = true })
}

// Dispatch waits up to timeoutMs milliseconds for sources to become ready
// (-1 blocks indefinitely), services them, then drains the idle queue.
func (l *Loop) Dispatch(timeoutMs int) error {
	var events [32]unix.EpollEvent
	n, err := unix.EpollWait(l.epfd, events[:], timeoutMs)
	if err != nil && err != unix.EINTR {
		return err
	}

	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		if fd == l.wakeR {
			l.drainWake()
			continue
		}
		if handler, ok := l.sources[fd]; ok {
			handler(fd, events[i].Events)
		}
	}

	l.dispatchIdle()
	return nil
}

func (l *Loop) drainWake() {
	var buf [64]byte
	for {
		if _, err := unix.Read(l.wakeR, buf[:]); err != nil {
			break
		}
	}

	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

func (l *Loop) dispatchIdle() {
	for len(l.idle) > 0 {
		fn := l.idle[0]
		l.idle = l.idle[1:]
		fn()
	}
}

// Run dispatches until Stop is called or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	watcher := context.AfterFunc(ctx, func() { l.Stop() })
	defer watcher()

	for !l.stop {
		if err := l.Dispatch(-1); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Close releases the loop's descriptors. The loop must not be used after.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	unix.Close(l.wakeR)
	unix.Close(l.wakeW)
	unix.Close(l.epfd)
}
