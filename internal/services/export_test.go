package services

import "time"

// SetClock replaces the time source of the session manager.
func (m *SessionManager) SetClock(now func() time.Time) {
	m.now = now
}
