package webui

import (
	"bytes"
	"io"
	"testing"
	"time"

	"auction-console/internal/timing"

	"github.com/stretchr/testify/require"
)

func TestLoad_AllPagesPresent(t *testing.T) {
	t.Parallel()
	bundle, err := Load(nil)
	require.NoError(t, err)

	for _, name := range []string{
		"landing.html", "login.html", "register.html", "home.html", "bid.html",
		"admin.html", "confirm_delete.html", "notfound.html", "error.html",
	} {
		require.NotNil(t, bundle.Templates.Lookup(name), name)
	}

	f, err := bundle.StaticFS.Open("app.js")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Contains(t, string(body), "EventSource")
}

func TestFuncs(t *testing.T) {
	t.Parallel()
	funcs := Funcs(time.FixedZone("CEST", 2*3600))
	start := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	require.Equal(t, "$12.50", funcs["money"].(func(float64) string)(12.5))
	require.Equal(t, "$0.00", funcs["money"].(func(float64) string)(0))

	localtime := funcs["localtime"].(func(time.Time) string)
	require.Equal(t, "not scheduled", localtime(time.Time{}))
	require.Equal(t, "2024-07-01 12:00 CEST", localtime(start))

	datetimeLocal := funcs["datetimeLocal"].(func(time.Time) string)
	require.Equal(t, "", datetimeLocal(time.Time{}))
	require.Equal(t, "2024-07-01T12:00", datetimeLocal(start))

	label := funcs["label"].(func(timing.Status) string)
	require.Equal(t, "No auction scheduled", label(timing.Status{}))
	require.Equal(t, "CEST", funcs["zone"].(func() string)())
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()
	bundle, err := Load(time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bundle.Templates.ExecuteTemplate(&buf, "notfound.html", map[string]any{}))
	require.Contains(t, buf.String(), "404 - Page Not Found")
	require.Contains(t, buf.String(), `href="/home"`)
}
