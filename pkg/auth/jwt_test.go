package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts SessionOptions) (*SessionManager, *time.Time) {
	t.Helper()
	m, err := NewSessionManager("test-secret", opts)
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

var alice = User{Sub: "auth0|alice", Name: "Alice", Email: "alice@example.com", Picture: "https://p/a.png"}

func TestSessionRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{Absolute: 24 * time.Hour})

	w := httptest.NewRecorder()
	issued, err := m.Issue(w, alice)
	require.NoError(t, err)

	cookie := w.Result().Cookies()[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	sess, err := m.Read(requestWithCookies(w))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, alice, sess.User)
	assert.Equal(t, issued.ExpiresAt.Unix(), sess.ExpiresAt.Unix())
}

func TestSessionReadWithoutCookie(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{})
	sess, err := m.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionExpiresAfterAbsoluteDuration(t *testing.T) {
	m, now := newTestManager(t, SessionOptions{Absolute: 24 * time.Hour})

	w := httptest.NewRecorder()
	_, err := m.Issue(w, alice)
	require.NoError(t, err)

	*now = now.Add(25 * time.Hour)
	_, err = m.Read(requestWithCookies(w))
	assert.ErrorIs(t, err, ErrExpiredSession)
}

func TestSessionTamperedOrForeign(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{})
	other, err := NewSessionManager("another-secret", SessionOptions{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	_, err = other.Issue(w, alice)
	require.NoError(t, err)

	_, err = m.Read(requestWithCookies(w))
	assert.ErrorIs(t, err, ErrInvalidSession)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	_, err = m.Read(r)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRollingIsCappedByAbsolute(t *testing.T) {
	m, now := newTestManager(t, SessionOptions{Absolute: 24 * time.Hour, Inactivity: 2 * time.Hour, Rolling: true})
	start := *now

	w := httptest.NewRecorder()
	sess, err := m.Issue(w, alice)
	require.NoError(t, err)
	assert.Equal(t, start.Add(2*time.Hour), sess.ExpiresAt)

	*now = start.Add(time.Hour)
	require.NoError(t, m.Touch(httptest.NewRecorder(), sess))
	assert.Equal(t, start.Add(3*time.Hour), sess.ExpiresAt)

	*now = start.Add(23 * time.Hour)
	require.NoError(t, m.Touch(httptest.NewRecorder(), sess))
	assert.Equal(t, start.Add(24*time.Hour), sess.ExpiresAt)

	*now = start.Add(24 * time.Hour)
	assert.ErrorIs(t, m.Touch(httptest.NewRecorder(), sess), ErrExpiredSession)
}

func TestSessionTimesAreUTC(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{Absolute: 24 * time.Hour, Inactivity: 2 * time.Hour, Rolling: true})
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	now := start
	m.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	sess, err := m.Issue(w, alice)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, sess.AuthenticatedAt.Location())
	assert.Equal(t, time.UTC, sess.ExpiresAt.Location())

	now = start.Add(23 * time.Hour)
	touched := httptest.NewRecorder()
	require.NoError(t, m.Touch(touched, sess))
	assert.Equal(t, start.Add(24*time.Hour).UTC(), sess.ExpiresAt)

	read, err := m.Read(requestWithCookies(touched))
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, start.UTC(), read.AuthenticatedAt)
	assert.Equal(t, time.UTC, read.ExpiresAt.Location())
}

func TestSessionTouchWithoutRolling(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{Absolute: time.Hour})
	sess := &Session{User: alice, ExpiresAt: time.Unix(1, 0)}

	w := httptest.NewRecorder()
	require.NoError(t, m.Touch(w, sess))
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionClear(t *testing.T) {
	m, _ := newTestManager(t, SessionOptions{})
	w := httptest.NewRecorder()
	m.Clear(w)

	cookie := w.Result().Cookies()[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestDeriveKeyIsDeterministicPerPurpose(t *testing.T) {
	a, err := deriveKey("s", sessionKeyInfo)
	require.NoError(t, err)
	b, err := deriveKey("s", sessionKeyInfo)
	require.NoError(t, err)
	c, err := deriveKey("s", stateKeyInfo)
	require.NoError(t, err)

	assert.Len(t, a, keyLength)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
