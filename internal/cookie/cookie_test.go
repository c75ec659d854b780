package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretwall/secretwall/internal/cookie"
)

var testSecrets = []string{"test-secret-key-0123456789abcdef0123"}

func newManager(t *testing.T, opts ...cookie.Option) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(testSecrets, opts...)
	require.NoError(t, err)
	return m
}

// requestWithCookies replays the cookies a recorder captured onto a new
// request, mimicking the browser's next visit.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "name", "value"))

	got, err := m.Get(requestWithCookies(t, rec), "name")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestManager_Get_Missing(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := m.Get(req, "absent")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_SignedRoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rec, "token", "opaque-session-token"))

	// The raw cookie value must not equal the plaintext.
	raw := rec.Result().Cookies()[0].Value
	assert.NotEqual(t, "opaque-session-token", raw)
	assert.Contains(t, raw, "|")

	got, err := m.GetSigned(requestWithCookies(t, rec), "token")
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-token", got)
}

func TestManager_GetSigned_Tampered(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rec, "token", "value"))

	c := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name: c.Name,
		// Flip the signature portion.
		Value: strings.Split(c.Value, "|")[0] + "|AAAA",
	})

	_, err := m.GetSigned(req, "token")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestManager_GetSigned_MalformedValue(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "no-separator"})

	_, err := m.GetSigned(req, "token")
	assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
}

func TestManager_SecretRotation(t *testing.T) {
	t.Parallel()

	oldSecret := "old-secret-key-0123456789abcdef01234"
	newSecret := "new-secret-key-0123456789abcdef01234"

	oldManager, err := cookie.New([]string{oldSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, oldManager.SetSigned(rec, "token", "survives-rotation"))

	// New manager signs with the new secret but still accepts the old one.
	rotated, err := cookie.New([]string{newSecret, oldSecret})
	require.NoError(t, err)

	got, err := rotated.GetSigned(requestWithCookies(t, rec), "token")
	require.NoError(t, err)
	assert.Equal(t, "survives-rotation", got)

	// Dropping the old secret invalidates old cookies.
	strict, err := cookie.New([]string{newSecret})
	require.NoError(t, err)
	_, err = strict.GetSigned(requestWithCookies(t, rec), "token")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	m.Delete(rec, "name")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestManager_TooLarge(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()

	err := m.Set(rec, "big", strings.Repeat("x", cookie.MaxCookieSize))
	var tooLarge cookie.ErrCookieTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

func TestManager_Options(t *testing.T) {
	t.Parallel()

	m := newManager(t, cookie.WithSecure(true), cookie.WithPath("/app"))
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "name", "value", cookie.WithMaxAge(60)))

	c := rec.Result().Cookies()[0]
	assert.True(t, c.Secure)
	assert.Equal(t, "/app", c.Path)
	assert.Equal(t, 60, c.MaxAge)
	assert.True(t, c.HttpOnly)
}
