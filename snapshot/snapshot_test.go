package snapshot

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-dashboard/utils"
)

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("williamsburg:neighbourhood=Williamsburg&room_type=Private+room&price_max=150")
	require.NoError(t, err)
	assert.Equal(t, "williamsburg", p.Name)
	assert.Equal(t, "Private room", p.Query.Get("room_type"))
	assert.Equal(t, "150", p.Query.Get("price_max"))

	bare, err := ParsePreset("overview")
	require.NoError(t, err)
	assert.Equal(t, "overview", bare.Name)
	assert.Empty(t, bare.Query)
}

func TestParsePresetRejectsBadNames(t *testing.T) {
	for _, arg := range []string{"", "../etc:x=1", "two words", "a/b:price_min=1"} {
		_, err := ParsePreset(arg)
		assert.ErrorIs(t, err, ErrInvalidPreset, arg)
	}

	_, err := ParsePreset("bad:price_min=%zz")
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestParsePresets(t *testing.T) {
	presets, err := ParsePresets(nil)
	require.NoError(t, err)
	assert.Equal(t, []Preset{DefaultPreset}, presets)

	presets, err = ParsePresets([]string{"a:min_reviews=5", "b"})
	require.NoError(t, err)
	require.Len(t, presets, 2)

	_, err = ParsePresets([]string{"a", "a:price_min=10"})
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestPresetURL(t *testing.T) {
	p := Preset{Name: "harlem", Query: url.Values{"neighbourhood": {"Harlem"}, "min_reviews": {"5"}}}

	got, err := PresetURL("http://localhost:8050", p)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8050/?min_reviews=5&neighbourhood=Harlem", got)

	got, err = PresetURL("https://dash.example.com/nyc/", DefaultPreset)
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com/nyc/", got)

	_, err = PresetURL("ftp://localhost", p)
	assert.Error(t, err)
}

func TestFindChromeBinaryHonoursEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	assert.Equal(t, "/opt/custom/chrome", findChromeBinary())
}

func TestCaptureWithoutPresetsIsNoop(t *testing.T) {
	c := New(Options{OutDir: t.TempDir()}, utils.NewNopLogger())

	results, err := c.Capture(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewFillsDefaults(t *testing.T) {
	c := New(Options{}, utils.NewNopLogger())
	assert.Equal(t, 1440, c.opts.Width)
	assert.Equal(t, 900, c.opts.Height)
	assert.Equal(t, 60*time.Second, c.opts.Timeout)
}
