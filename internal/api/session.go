package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// sessionStore persists the session cookies so separate CLI invocations share
// one login. Best effort: a missing or corrupt file means "not logged in".
type sessionStore struct {
	path string
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func (s *sessionStore) load() []*http.Cookie {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var stored []storedCookie
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(time.Now()) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    sc.Name,
			Value:   sc.Value,
			Path:    sc.Path,
			Expires: sc.Expires,
		})
	}
	return cookies
}

func (s *sessionStore) save(cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	b, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *sessionStore) clear() {
	_ = os.Remove(s.path)
}
