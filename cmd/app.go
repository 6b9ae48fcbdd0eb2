package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ByLCY/wificard/config"
	"github.com/ByLCY/wificard/credential"
	"github.com/ByLCY/wificard/i18n"
	"github.com/ByLCY/wificard/layout"
	"github.com/ByLCY/wificard/qr"
	"github.com/ByLCY/wificard/renderer"
	canvasrenderer "github.com/ByLCY/wificard/renderer/canvas"
)

// app holds what every subcommand shares. It is filled once by setup, before
// any subcommand runs, and only read afterwards.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	palette  layout.Palette
	page     layout.PageSize
	local    i18n.Localizer
	fonts    map[string]layout.FontResource
	renderer renderer.Renderer
}

func (a *app) setup(cfg *config.Config, baseDir string, logger *zap.Logger) error {
	palette, err := layout.PaletteByName(cfg.Render.Palette)
	if err != nil {
		return err
	}
	page, err := layout.PageSizeByName(cfg.Render.PageSize)
	if err != nil {
		return err
	}
	fonts, err := cfg.Render.FontResources(baseDir)
	if err != nil {
		return err
	}
	fonts, blobs, err := loadFontFiles(fonts)
	if err != nil {
		return err
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Fonts: blobs, Logger: logger})

	catalog, err := i18n.Setup()
	if err != nil {
		return err
	}
	local, err := catalog.Localizer(cfg.Render.Lang)
	if err != nil {
		return err
	}
	if err := checkLabelCoverage(r, local, fonts); err != nil {
		if !isSystemLang(cfg.Render.Lang) {
			return err
		}
		logger.Warn("System language not covered by the configured fonts, using English",
			zap.String("lang", local.Language()), zap.Error(err))
		if local, err = catalog.Localizer("en"); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.log = logger
	a.palette = palette
	a.page = page
	a.local = local
	a.fonts = fonts
	a.renderer = r
	logger.Debug("Render settings resolved",
		zap.String("palette", palette.Name),
		zap.String("page_size", page.Name),
		zap.String("lang", local.Language()),
	)
	return nil
}

// loadFontFiles reads every font given as a file path and hands it to the
// renderer as an in-memory resource, so a missing file fails at startup.
func loadFontFiles(fonts map[string]layout.FontResource) (map[string]layout.FontResource, map[string]canvasrenderer.Resource, error) {
	blobs := map[string]canvasrenderer.Resource{}
	for name, font := range fonts {
		if strings.HasPrefix(font.Src, "embed:") {
			continue
		}
		data, err := os.ReadFile(font.Src)
		if err != nil {
			return nil, nil, fmt.Errorf("render.fonts.%s: %w", name, err)
		}
		blobs[name] = canvasrenderer.Resource{Bytes: data}
		font.Src = "built-in:" + name
		fonts[name] = font
	}
	return fonts, blobs, nil
}

type glyphChecker interface {
	MissingGlyphs(text string, font layout.FontResource) ([]rune, error)
}

// checkLabelCoverage fails when a translated label has characters the font it
// is drawn with cannot show.
func checkLabelCoverage(g glyphChecker, local i18n.Localizer, fonts map[string]layout.FontResource) error {
	labels := layout.LabelFonts()
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		text := local.T(key)
		missing, err := g.MissingGlyphs(text, fonts[labels[key]])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%q needs %q", text, string(missing)))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("language %s is not covered by the fonts, set render.fonts.main and render.fonts.bold to fonts that include it: %w",
			local.Language(), errors.Join(errs...))
	}
	return nil
}

func isSystemLang(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, i18n.System)
}

// writePDF composes records, renders them and writes the PDF to outputPath.
// When debugPath is set the layout result is written there as JSON.
func (a *app) writePDF(w io.Writer, records []credential.Record, outputPath, debugPath string) error {
	result, err := layout.Compose(records, layout.ComposeOptions{
		Metrics:     a.renderer,
		Graphics:    qr.Source{},
		Palette:     a.palette,
		Localizer:   a.local,
		PageSize:    a.page,
		Fonts:       a.fonts,
		Footer:      a.cfg.Render.Footer,
		SkipInvalid: a.cfg.Render.SkipInvalid,
		Logger:      a.log,
	})
	if err != nil {
		return fmt.Errorf("layout failed: %w", err)
	}
	if len(result.Skipped) > 0 {
		a.log.Warn("Some networks were skipped", zap.Strings("ssids", result.Skipped))
	}

	if debugPath != "" {
		if err := ensureDir(debugPath); err != nil {
			return err
		}
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("writing layout debug JSON: %w", err)
		}
	}

	pdfBytes, err := a.renderer.Render(result)
	if err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	if err := writeFile(outputPath, pdfBytes); err != nil {
		return err
	}
	a.log.Info("PDF written", zap.String("path", outputPath), zap.Int("pages", len(result.Pages)))
	fmt.Fprintf(w, "wrote %s (%d page(s))\n", outputPath, len(result.Pages))
	return nil
}

// recordFromArgs builds and validates a record from command-line input.
func recordFromArgs(ssid, security, password string, hidden bool) (credential.Record, error) {
	sec, err := credential.ParseSecurity(security)
	if err != nil {
		return credential.Record{}, err
	}
	rec := credential.Record{SSID: ssid, Security: sec, Password: password, Hidden: hidden}
	if err := rec.Validate(); err != nil {
		return credential.Record{}, fmt.Errorf("invalid network %q: %w", ssid, err)
	}
	return rec, nil
}

// configBaseDir resolves relative font paths against the settings file.
func configBaseDir(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return filepath.Dir(used)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return errors.New("output path must not be empty")
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
