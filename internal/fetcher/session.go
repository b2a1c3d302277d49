package fetcher

import "sync/atomic"

// sessionToken holds the token sent in the Session header.
type sessionToken struct {
	v atomic.Pointer[string]
}

func (s *sessionToken) set(token string) {
	if token == "" {
		s.v.Store(nil)
		return
	}
	s.v.Store(&token)
}

func (s *sessionToken) get() string {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return ""
}
