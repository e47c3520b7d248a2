package eventloop

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/waycore/internal/logging"
)

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	l, err := New(logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

func testPipe(t *testing.T) (r, w int) {
	t.Helper()
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return p[0], p[1]
}

func TestAddFDDispatch(t *testing.T) {
	l := newTestLoop(t)
	r, w := testPipe(t)

	var got []byte
	if _, err := l.AddFD(r, func(fd int, events uint32) {
		var buf [16]byte
		n, _ := unix.Read(fd, buf[:])
		got = append(got, buf[:n]...)
	}); err != nil {
		t.Fatalf("AddFD: %v", err)
	}

	unix.Write(w, []byte("hi"))
	if err := l.Dispatch(100); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if string(got) != "hi" {
		t.Errorf("handler read %q, want %q", got, "hi")
	}
}

func TestAddFDTwice(t *testing.T) {
	l := newTestLoop(t)
	r, _ := testPipe(t)

	if _, err := l.AddFD(r, func(int, uint32) {}); err != nil {
		t.Fatalf("AddFD: %v", err)
	}
	if _, err := l.AddFD(r, func(int, uint32) {}); err != ErrFDRegistered {
		t.Errorf("second AddFD err = %v, want ErrFDRegistered", err)
	}
}

func TestIdleRunsAfterReadyHandlers(t *testing.T) {
	l := newTestLoop(t)
	r, w := testPipe(t)

	var order []string
	l.AddFD(r, func(fd int, events uint32) {
		var buf [16]byte
		unix.Read(fd, buf[:])
		order = append(order, "fd")
		l.AddIdle(func() { order = append(order, "idle") })
	})

	unix.Write(w, []byte("x"))
	if err := l.Dispatch(100); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(order) != 2 || order[0] != "fd" || order[1] != "idle" {
		t.Errorf("order = %v, want [fd idle]", order)
	}
}

func TestIdleQueuedDuringDrainRunsSameDispatch(t *testing.T) {
	l := newTestLoop(t)

	var order []string
	l.AddIdle(func() {
		order = append(order, "first")
		l.AddIdle(func() { order = append(order, "second") })
	})

	if err := l.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(order) != 2 || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestPostWakesLoop(t *testing.T) {
	l := newTestLoop(t)

	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Post(func() { close(done) })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		select {
		case <-done:
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("posted function never ran")
		}
		if err := l.Dispatch(100); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	l := newTestLoop(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	select {
	case err := <-errc:
		if err != context.DeadlineExceeded {
			t.Errorf("Run = %v, want context.DeadlineExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
