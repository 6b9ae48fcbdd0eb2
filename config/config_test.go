package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/wificard/credential"
	"github.com/ByLCY/wificard/layout"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, layout.DefaultPaletteName, cfg.Render.Palette)
	assert.Equal(t, "system", cfg.Render.Lang)
	assert.Equal(t, "A4", cfg.Render.PageSize)
	assert.False(t, cfg.Render.SkipInvalid)
}

func TestSetupReadsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wificard.yaml")
	content := "logger:\n  level: debug\nrender:\n  palette: tritanopia\n  page_size: Letter\n  footer: \"Guest ${ssid}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("WIFICARD_RENDER_SKIP_INVALID", "true")

	v := viper.New()
	require.NoError(t, Setup(v, path))
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "tritanopia", cfg.Render.Palette)
	assert.Equal(t, "Letter", cfg.Render.PageSize)
	assert.Equal(t, "Guest ${ssid}", cfg.Render.Footer)
	assert.True(t, cfg.Render.SkipInvalid)
}

func TestSetupWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Setup(v, ""))
	_, err := NewConfigFromViper(v)
	require.NoError(t, err)
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	cfg := Config{
		Logger: LoggerConfig{Format: "xml"},
		Render: RenderConfig{Palette: "sepia", PageSize: "B5"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"logger.format", "render.palette", "render.page_size"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestFontResources(t *testing.T) {
	r := RenderConfig{Fonts: FontsConfig{Mono: "fonts/FiraCode.ttf", Bold: "/abs/Bold.ttf"}}
	fonts, err := r.FontResources("/base")
	require.NoError(t, err)

	assert.Equal(t, "/base/fonts/FiraCode.ttf", fonts[layout.FontMono].Src)
	assert.Equal(t, "/abs/Bold.ttf", fonts[layout.FontBold].Src)
	assert.Equal(t, layout.DefaultFonts()[layout.FontMain], fonts[layout.FontMain])
}

const sampleCredentials = `
["Zeta Home"]
security = "WPA2"
password = "correct horse"

[Alpha]
ssid = "Alpha Guest"
security = "open"
hidden = true

["Mid"]
security = "wpa3-psk"
password = "p4ssw0rd!"
hidden = false
`

func TestLoadCredentialsKeepsFileOrder(t *testing.T) {
	records, err := LoadCredentials(strings.NewReader(sampleCredentials))
	require.NoError(t, err)

	want := []credential.Record{
		{SSID: "Zeta Home", Security: credential.WPA2PSK, Password: "correct horse"},
		{SSID: "Alpha Guest", Security: credential.Open, Hidden: true},
		{SSID: "Mid", Security: credential.WPA3PSK, Password: "p4ssw0rd!"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCredentialsReportsEveryIssue(t *testing.T) {
	in := `
[Short]
security = "WPA2"
password = "1234"

[NoPassword]
security = "WEP"

[Unknown]
security = "WPA9"
colour = "blue"
`
	_, err := LoadCredentials(strings.NewReader(in))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	require.NotEmpty(t, ve.Issues)

	locations := map[string]bool{}
	for _, issue := range ve.Issues {
		locations[issue.InstanceLocation] = true
		assert.NotEmpty(t, issue.Message)
	}
	for _, want := range []string{"/Short/password", "/NoPassword", "/Unknown/security"} {
		assert.True(t, locations[want], "missing issue at %s in %+v", want, ve.Issues)
	}
	assert.Contains(t, err.Error(), "configuration is not valid")
}

func TestLoadCredentialsChecksValueTypes(t *testing.T) {
	in := `
[Numbers]
security = "WPA2"
password = 12345678
hidden = 1
`
	_, err := LoadCredentials(strings.NewReader(in))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	locations := map[string]bool{}
	for _, issue := range ve.Issues {
		locations[issue.InstanceLocation] = true
	}
	assert.True(t, locations["/Numbers/password"], "integer password must be rejected: %+v", ve.Issues)
	assert.True(t, locations["/Numbers/hidden"], "integer hidden flag must be rejected: %+v", ve.Issues)
}

func TestLoadCredentialsRejectsEmptyAndMalformed(t *testing.T) {
	_, err := LoadCredentials(strings.NewReader(""))
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "empty file must fail schema validation: %v", err)

	_, err = LoadCredentials(strings.NewReader("[broken"))
	require.Error(t, err)
	assert.False(t, errors.As(err, &ve))
}

func TestCompileSchema(t *testing.T) {
	_, err := CompileSchema()
	require.NoError(t, err)
}
