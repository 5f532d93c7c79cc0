package modelcompat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/hupe1980/modelcompat/blobstore"
	"github.com/hupe1980/modelcompat/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug turns a version display name into a file name fragment: every run
// of whitespace becomes "-" and the result is lowercased.
func Slug(displayName string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(displayName, "-"))
}

// ExportFilename returns the conventional export file name.
//
//	single:     <slug>-compatible-models.json
//	range:      <first>-to-<last>-compatible-models.json
//	difference: <older>-to-<newer>-dropped-models.json
func ExportFilename(mode Mode, versions ...model.VersionDescriptor) string {
	if len(versions) == 0 {
		return "compatible-models.json"
	}

	first := Slug(versions[0].DisplayName)
	last := Slug(versions[len(versions)-1].DisplayName)

	switch mode {
	case ModeRange:
		return first + "-to-" + last + "-compatible-models.json"
	case ModeDifference:
		return first + "-to-" + last + "-dropped-models.json"
	default:
		return first + "-compatible-models.json"
	}
}

// MarshalJSON encodes models as a top-level JSON array indented by two
// spaces, without HTML escaping and without a trailing newline.
func MarshalJSON(models model.ResultSet) ([]byte, error) {
	if models == nil {
		models = model.ResultSet{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes models to w in the export format.
func WriteJSON(w io.Writer, models model.ResultSet) error {
	data, err := MarshalJSON(models)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Export stores the view's models under its conventional file name and
// returns that name. A view without models is not exported.
func Export(ctx context.Context, w blobstore.Writer, v View) (string, error) {
	if len(v.Models) == 0 {
		return "", ErrEmptyResult
	}

	name := v.Filename()
	data, err := MarshalJSON(v.Models)
	if err != nil {
		return "", err
	}
	if err := w.Put(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}
