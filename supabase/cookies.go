package supabase

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// CookieOptions carries the attributes applied when a cookie is written or removed.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// CookieStore is the session-cookie contract the server client needs:
// reads come from the incoming request, writes go to the outgoing response.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions)
	Remove(name string, opts CookieOptions)
	// Names returns every cookie name visible to Get.
	Names() []string
}

// RequestCookies bridges an http.Request / http.ResponseWriter pair into a CookieStore.
// Values set during the request are visible to later Gets in the same request.
type RequestCookies struct {
	r       *http.Request
	w       http.ResponseWriter
	pending map[string]*string // nil value marks a removed cookie
}

// NewRequestCookies creates a cookie bridge for one request.
func NewRequestCookies(r *http.Request, w http.ResponseWriter) *RequestCookies {
	return &RequestCookies{
		r:       r,
		w:       w,
		pending: make(map[string]*string),
	}
}

// Get returns the cookie value, preferring values written earlier in this request.
func (c *RequestCookies) Get(name string) (string, bool) {
	if v, ok := c.pending[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Set writes a Set-Cookie header and records the value for later reads.
func (c *RequestCookies) Set(name, value string, opts CookieOptions) {
	v := value
	c.pending[name] = &v
	http.SetCookie(c.w, newCookie(name, value, opts))
}

// Remove expires the cookie on the client.
func (c *RequestCookies) Remove(name string, opts CookieOptions) {
	c.pending[name] = nil
	opts.MaxAge = -1
	http.SetCookie(c.w, newCookie(name, "", opts))
}

// Names returns the request cookie names merged with pending writes.
func (c *RequestCookies) Names() []string {
	seen := make(map[string]bool)
	for _, cookie := range c.r.Cookies() {
		seen[cookie.Name] = true
	}
	for name, v := range c.pending {
		seen[name] = v != nil
	}
	names := make([]string, 0, len(seen))
	for name, present := range seen {
		if present {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func newCookie(name, value string, opts CookieOptions) *http.Cookie {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: sameSite,
	}
}

// maxChunkSize keeps each cookie under browser header limits once attributes are added.
const maxChunkSize = 3180

// writeChunked stores value under name, splitting it into name.0, name.1, ... when too large.
// Stale chunks from a previous, longer value are removed.
func writeChunked(store CookieStore, name, value string, opts CookieOptions) {
	if len(value) <= maxChunkSize {
		store.Set(name, value, opts)
		removeChunks(store, name, 0, opts)
		return
	}

	if _, ok := store.Get(name); ok {
		store.Remove(name, opts)
	}
	i := 0
	for start := 0; start < len(value); start += maxChunkSize {
		end := start + maxChunkSize
		if end > len(value) {
			end = len(value)
		}
		store.Set(chunkName(name, i), value[start:end], opts)
		i++
	}
	removeChunks(store, name, i, opts)
}

// readChunked returns the value stored under name, joining chunks when needed.
func readChunked(store CookieStore, name string) (string, bool) {
	if v, ok := store.Get(name); ok {
		return v, true
	}
	var b strings.Builder
	for i := 0; ; i++ {
		v, ok := store.Get(chunkName(name, i))
		if !ok {
			break
		}
		b.WriteString(v)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// removeAll removes the plain cookie and any chunks.
func removeAll(store CookieStore, name string, opts CookieOptions) {
	if _, ok := store.Get(name); ok {
		store.Remove(name, opts)
	}
	removeChunks(store, name, 0, opts)
}

func removeChunks(store CookieStore, name string, from int, opts CookieOptions) {
	prefix := name + "."
	for _, n := range store.Names() {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(n, prefix))
		if err != nil || idx < from {
			continue
		}
		store.Remove(n, opts)
	}
}

func chunkName(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}
