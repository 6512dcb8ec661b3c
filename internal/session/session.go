// Package session holds the identity of the logged-in user for the
// lifetime of the application, along with incidental UI selection state.
package session

import (
	"sync"

	"github.com/atinyakov/sms/internal/models"
	"github.com/google/uuid"
)

// Session is the application's login state. It starts logged out, moves to
// logged in on SetUser and back on Clear. One Session is created by the
// application root and handed to whatever needs identity context.
type Session struct {
	mu       sync.RWMutex
	user     *models.User
	loginID  string
	courseID int
}

// New returns a logged-out session.
func New() *Session {
	return &Session{}
}

// SetUser logs u in, replacing any user already logged in. Every call
// starts a new login with a fresh login ID.
func (s *Session) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.loginID = uuid.NewString()
}

// User returns the logged-in user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// LoginID identifies the current login for log correlation. It is empty
// while logged out.
func (s *Session) LoginID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginID
}

// Clear logs the user out. The selected course is left alone; callers
// that want it gone say so with SetSelectedCourseID(0) or Reset.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loginID = ""
}

// SetSelectedCourseID remembers the course picked on a list screen.
func (s *Session) SetSelectedCourseID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseID = id
}

// SelectedCourseID returns the remembered course, or 0 if none was picked.
func (s *Session) SelectedCourseID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseID
}

// Reset returns the session to the state New produces.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loginID = ""
	s.courseID = 0
}
