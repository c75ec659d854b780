package response_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretwall/secretwall/internal/response"
)

func record(t *testing.T, resp func(http.ResponseWriter, *http.Request) error) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, resp(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	return rec
}

func TestString(t *testing.T) {
	t.Parallel()

	rec := record(t, response.String("hello"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestStringWithStatus(t *testing.T) {
	t.Parallel()

	rec := record(t, response.StringWithStatus("made", http.StatusCreated))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	rec := record(t, response.Status(http.StatusNoContent))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	rec := record(t, response.Redirect("/elsewhere"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/elsewhere", rec.Header().Get("Location"))

	rec = record(t, response.RedirectSeeOther("/done"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/done", rec.Header().Get("Location"))
}

func TestError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := response.Error(response.ErrConflict)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, response.ErrConflict)
	assert.Empty(t, rec.Body.String(), "Error writes nothing itself")
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("page").Parse("<p>{{.Name}}</p>"))
	rec := record(t, response.Template(tmpl, map[string]string{"Name": "alice"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>alice</p>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestTemplate_ExecutionFailureWritesNothing(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("page").Parse(`{{call .Boom}}`))
	rec := httptest.NewRecorder()
	err := response.Template(tmpl, map[string]any{})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Error(t, err)
	assert.Empty(t, rec.Body.String(), "buffered render keeps partial output off the wire")
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusConflict, response.ErrConflict.StatusCode())
	assert.Equal(t, "conflict", response.ErrConflict.Code)

	custom := response.ErrBadRequest.WithMessage("secret must not be empty")
	assert.Equal(t, "secret must not be empty", custom.Error())
	assert.Equal(t, http.StatusBadRequest, custom.StatusCode())
	// The original is unchanged.
	assert.Equal(t, http.StatusText(http.StatusBadRequest), response.ErrBadRequest.Message)
}
