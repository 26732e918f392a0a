package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	stdimage "image"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmylchreest/colorpal/internal/colour"
	"github.com/jmylchreest/colorpal/internal/image"
	"github.com/jmylchreest/colorpal/internal/version"
)

const (
	uploadField = "image"
	countField  = "colours"
	sizeField   = "size"

	multipartMemory = 8 << 20
	maxPatchSize    = 512
)

// upload is a decoded palette request.
type upload struct {
	Filename string
	Image    stdimage.Image
	Count    int
}

type swatch struct {
	Hex   string
	RGB   string
	Patch template.URL
	// Style paints the hex label in the swatch colour with readable text.
	Style template.CSS
}

type page struct {
	Colours    int
	MaxColours int
	Accept     string
	Version    string
	Error      string
	Filename   string
	Preview    template.URL
	Swatches   []swatch
}

func (app *Application) newPage() page {
	return page{
		Colours:    app.Config.Colours,
		MaxColours: colour.MaxColourCount,
		Accept:     strings.Join(image.SupportedImageExtensions(), ","),
		Version:    version.Short(),
	}
}

// index renders the empty upload form.
func (app *Application) index(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, app.newPage())
}

// uploadPage extracts a palette from the submitted form and renders it.
func (app *Application) uploadPage(w http.ResponseWriter, r *http.Request) {
	u, palette, err := app.extract(w, r)
	if err != nil {
		app.renderFailure(w, r, err)
		return
	}

	p := app.newPage()
	p.Colours = u.Count
	p.Filename = u.Filename
	if p.Preview, err = dataURI("image/jpeg", func(buf io.Writer) error {
		return image.EncodeJPEG(buf, image.Thumbnail(u.Image, app.Config.ThumbnailSize))
	}); err != nil {
		app.renderFailure(w, r, err)
		return
	}
	if p.Swatches, err = buildSwatches(palette); err != nil {
		app.renderFailure(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, p)
}

// apiPalette returns the palette of the uploaded image as JSON.
func (app *Application) apiPalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.errorJSON(w, r, ErrPOST)
		return
	}

	_, palette, err := app.extract(w, r)
	if err != nil {
		app.errorJSON(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, palette.JSON())
}

// apiSwatches returns the palette of the uploaded image as a labelled PNG strip.
func (app *Application) apiSwatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.errorJSON(w, r, ErrPOST)
		return
	}

	_, palette, err := app.extract(w, r)
	if err != nil {
		app.errorJSON(w, r, err)
		return
	}
	size, err := parseBounded(r.FormValue(sizeField), colour.DefaultPatchSize, maxPatchSize, sizeField)
	if err != nil {
		app.errorJSON(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := image.EncodePNG(&buf, colour.RenderStrip(palette, size)); err != nil {
		app.errorJSON(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (app *Application) health(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *Application) versionInfo(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, version.GetInfo())
}

// extract reads the upload and runs the configured extractor on it.
func (app *Application) extract(w http.ResponseWriter, r *http.Request) (*upload, *colour.Palette, error) {
	u, err := app.readUpload(w, r)
	if err != nil {
		return nil, nil, err
	}

	logger := requestLogger(r.Context(), app.Logger)
	extractor, err := colour.NewExtractor(app.Config.Extractor(u.Count), logger)
	if err != nil {
		return nil, nil, err
	}

	palette, err := extractor.Extract(u.Image, u.Count)
	if err != nil {
		return nil, nil, err
	}

	b := u.Image.Bounds()
	logger.Debug("palette extracted", "file", u.Filename, "width", b.Dx(), "height", b.Dy(), "colours", palette.Len())
	return u, palette, nil
}

func (app *Application) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	limit := app.Config.MaxUploadBytes
	if r.ContentLength > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, badRequest("could not parse upload: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	count, err := parseBounded(r.FormValue(countField), app.Config.Colours, colour.MaxColourCount, countField)
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, badRequest("missing %q file field", uploadField)
	}
	defer file.Close()

	img, _, err := image.Decode(file, header.Filename)
	if err != nil {
		return nil, err
	}

	return &upload{Filename: header.Filename, Image: img, Count: count}, nil
}

// parseBounded parses an optional integer form value in [1, upper].
func parseBounded(value string, fallback, upper int, field string) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, badRequest("%s must be an integer, got %q", field, value)
	}
	if n < 1 || n > upper {
		return 0, badRequest("%s must be between 1 and %d, got %d", field, upper, n)
	}
	return n, nil
}

func buildSwatches(palette *colour.Palette) ([]swatch, error) {
	patches := colour.PlotColours(palette.Centroids, colour.DefaultPatchSize)

	swatches := make([]swatch, 0, palette.Len())
	for i, c := range palette.All() {
		uri, err := dataURI("image/png", func(buf io.Writer) error {
			return image.EncodePNG(buf, patches[i])
		})
		if err != nil {
			return nil, err
		}
		e := colour.NewEntry(c)
		swatches = append(swatches, swatch{Hex: e.Hex, RGB: e.Tuple(), Patch: uri, Style: labelStyle(c.RGB())})
	}
	return swatches, nil
}

func labelStyle(c colour.RGB) template.CSS {
	text := colour.ToRGB(colour.LabelColour(c))
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s", c.Hex(), text.Hex())) // #nosec G203 - built from formatted hex codes
}

// dataURI runs encode and wraps its output in a base64 data URI.
func dataURI(mime string, encode func(io.Writer) error) (template.URL, error) {
	var buf bytes.Buffer
	buf.WriteString("data:" + mime + ";base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := encode(enc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return template.URL(buf.String()), nil // #nosec G203 - generated from our own encoder
}

func (app *Application) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	var buf bytes.Buffer
	if err := app.templates.ExecuteTemplate(&buf, "index.html", p); err != nil {
		requestLogger(r.Context(), app.Logger).Error("failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (app *Application) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	app.logFailure(r, status, err)
	p := app.newPage()
	p.Error = body.ErrorName + ": " + body.Description
	app.render(w, r, status, p)
}

func (app *Application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		app.errorJSON(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
