// Package cookies manages the dashboard's cookie list through a Surface
// port with document.cookie semantics: reading yields the joined
// "name=value" pairs, writing takes one set-string whose expiry attribute
// may delete the cookie.
package cookies

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Cookie is one name/value pair as seen through the surface. The read
// surface exposes no attributes, so none are carried here.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Surface is the document.cookie stand-in.
type Surface interface {
	// Read returns the joined "name=value; name2=value2" string of all
	// live cookies.
	Read() string
	// Write applies one cookie set-string. An expiry in the past deletes
	// the named cookie.
	Write(setString string) error
}

// Jar reads and writes cookies, percent-encoding names and values the way
// the page does with encodeURIComponent.
type Jar struct {
	surface Surface
	now     func() time.Time
}

// NewJar builds a jar over the given surface.
func NewJar(surface Surface) *Jar {
	return &Jar{surface: surface, now: time.Now}
}

// Set writes a cookie. With days > 0 an expiry that many days out is
// attached; otherwise the cookie is session-scoped. Empty name or value is
// rejected before touching the surface.
func (j *Jar) Set(name, value string, days int) error {
	if name == "" || value == "" {
		return fmt.Errorf("cookie name and value are required")
	}

	set := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	if days > 0 {
		expires := j.now().Add(time.Duration(days) * 24 * time.Hour).UTC()
		set += "; expires=" + expires.Format(http.TimeFormat)
	}
	set += "; path=/"

	if err := j.surface.Write(set); err != nil {
		return fmt.Errorf("set cookie %q: %w", name, err)
	}
	return nil
}

// All parses the surface into decoded cookies. Malformed pairs (no '=')
// are skipped.
func (j *Jar) All() []Cookie {
	raw := j.surface.Read()
	var out []Cookie
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.Index(part, "=")
		if eq < 0 {
			continue
		}
		name, err := url.QueryUnescape(part[:eq])
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(part[eq+1:])
		if err != nil {
			continue
		}
		out = append(out, Cookie{Name: name, Value: value})
	}
	return out
}

// Clear rewrites every live cookie with an epoch expiry, deleting it.
func (j *Jar) Clear() error {
	for _, c := range j.All() {
		set := url.QueryEscape(c.Name) + "=; expires=Thu, 01 Jan 1970 00:00:00 GMT; path=/"
		if err := j.surface.Write(set); err != nil {
			return fmt.Errorf("clear cookie %q: %w", c.Name, err)
		}
	}
	return nil
}

// MemSurface emulates the browser cookie store for tests and native runs:
// writes merge by name, expired writes delete, reads join live cookies in
// first-set order.
type MemSurface struct {
	names  []string
	values map[string]string
	now    func() time.Time
}

// NewMemSurface creates an empty in-memory surface.
func NewMemSurface() *MemSurface {
	return &MemSurface{
		values: make(map[string]string),
		now:    time.Now,
	}
}

func (s *MemSurface) Read() string {
	parts := make([]string, 0, len(s.names))
	for _, name := range s.names {
		parts = append(parts, name+"="+s.values[name])
	}
	return strings.Join(parts, "; ")
}

func (s *MemSurface) Write(setString string) error {
	segments := strings.Split(setString, ";")
	pair := strings.TrimSpace(segments[0])
	eq := strings.Index(pair, "=")
	if eq < 0 {
		return fmt.Errorf("malformed cookie string %q", setString)
	}
	name, value := pair[:eq], pair[eq+1:]
	if name == "" {
		return fmt.Errorf("malformed cookie string %q", setString)
	}

	for _, attr := range segments[1:] {
		attr = strings.TrimSpace(attr)
		if len(attr) > 8 && strings.EqualFold(attr[:8], "expires=") {
			expires, err := time.Parse(http.TimeFormat, attr[8:])
			if err != nil {
				return fmt.Errorf("bad expires in %q: %w", setString, err)
			}
			if expires.Before(s.now()) {
				s.delete(name)
				return nil
			}
		}
	}

	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
	return nil
}

func (s *MemSurface) delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}
