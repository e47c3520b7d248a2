package headless

import (
	"sync"

	"github.com/dshills/waycore/internal/logging"
)

// Session pretends to manage VT and DRM mastership. A headless run is
// always master and VT switches only change a number.
type Session struct {
	log *logging.Logger

	mu     sync.Mutex
	master bool
	vt     int
}

// NewSession creates a headless session on VT 1.
func NewSession(log *logging.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{log: log.WithComponent("headless-session"), vt: 1}
}

// SetMaster acquires display mastership. Never fails headlessly.
func (s *Session) SetMaster() error {
	s.mu.Lock()
	s.master = true
	s.mu.Unlock()
	s.log.Debug("mastership acquired")
	return nil
}

// DropMaster releases display mastership.
func (s *Session) DropMaster() error {
	s.mu.Lock()
	s.master = false
	s.mu.Unlock()
	s.log.Debug("mastership released")
	return nil
}

// SwitchVT records the requested virtual terminal.
func (s *Session) SwitchVT(vt int) error {
	s.mu.Lock()
	s.vt = vt
	s.mu.Unlock()
	s.log.Info("switched to vt%d", vt)
	return nil
}

// IsMaster reports whether the session currently holds mastership.
func (s *Session) IsMaster() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master
}

// VT returns the current virtual terminal number.
func (s *Session) VT() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vt
}
