// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionHeader carries the opaque token issued by the gate.
const sessionHeader = "X-Session-Token"

// Gate is the shared-password fence in front of the dashboard API. It is
// request-scoped state owned by the server, not a process global: tokens
// live in this struct and expire on their own. This is a usability fence
// for a guild dashboard, not an authentication system.
type Gate struct {
	mu       sync.RWMutex
	hashes   [][]byte
	sessions map[string]time.Time // token -> expiry
	ttl      time.Duration
	now      func() time.Time
}

// NewGate creates a gate from bcrypt password hashes. An empty hash list
// leaves the gate open.
func NewGate(hashes []string, ttl time.Duration) *Gate {
	g := &Gate{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, h := range hashes {
		h = strings.TrimSpace(h)
		if h != "" {
			g.hashes = append(g.hashes, []byte(h))
		}
	}
	return g
}

// Open reports whether the gate has no passwords configured.
func (g *Gate) Open() bool {
	return len(g.hashes) == 0
}

// Unlock checks the password against every configured hash and issues a
// session token on a match.
func (g *Gate) Unlock(password string) (token string, expires time.Time, ok bool) {
	matched := false
	for _, h := range g.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(password)) == nil {
			matched = true
			break
		}
	}
	if !matched {
		return "", time.Time{}, false
	}

	token = uuid.NewString()
	expires = g.now().Add(g.ttl)
	g.mu.Lock()
	// Expired tokens pile up between restarts of long-lived deployments;
	// sweep them while we hold the write lock anyway.
	for t, exp := range g.sessions {
		if g.now().After(exp) {
			delete(g.sessions, t)
		}
	}
	g.sessions[token] = expires
	g.mu.Unlock()
	return token, expires, true
}

// Valid reports whether the token identifies a live session.
func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.RLock()
	expires, ok := g.sessions[token]
	g.mu.RUnlock()
	return ok && g.now().Before(expires)
}

// Middleware rejects requests without a live session token unless the
// gate is open.
func (g *Gate) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.Open() || g.Valid(r.Header.Get(sessionHeader)) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
	}
}

// sessionRequest mirrors the POST /api/session body.
type sessionRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// SessionHandler issues session tokens for the password gate.
type SessionHandler struct {
	gate *Gate
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(gate *Gate) *SessionHandler {
	return &SessionHandler{gate: gate}
}

// HandleCreateSession handles POST /api/session requests.
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if h.gate.Open() {
		// Nothing to unlock; hand back a token anyway so clients can use
		// one code path.
		token, expires, _ := h.gate.openSession()
		writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	token, expires, ok := h.gate.Unlock(req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "wrong_password", ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
}

// openSession issues a token without a password check, used when the gate
// has no passwords configured.
func (g *Gate) openSession() (string, time.Time, bool) {
	token := uuid.NewString()
	expires := g.now().Add(g.ttl)
	g.mu.Lock()
	g.sessions[token] = expires
	g.mu.Unlock()
	return token, expires, true
}
