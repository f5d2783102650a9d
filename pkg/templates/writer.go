package templates

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Writer persists rendered files below Dir.
type Writer struct {
	Fs  afero.Fs
	Dir string
}

// NewWriter returns a Writer on the OS filesystem.
func NewWriter(dir string) *Writer {
	return &Writer{Fs: afero.NewOsFs(), Dir: dir}
}

// Write creates Dir if needed and writes content to Dir/name, returning the
// full path.
func (w *Writer) Write(name string, content string) (string, error) {
	if err := w.Fs.MkdirAll(w.Dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", w.Dir, err)
	}
	dest := filepath.Join(w.Dir, name)
	if err := afero.WriteFile(w.Fs, dest, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", dest, err)
	}
	log.WithField("file", dest).Info("generated file")
	return dest, nil
}

// Generate renders every entry of Files against data and writes the
// results. It stops at the first failure.
func Generate(r *Renderer, w *Writer, data interface{}) ([]string, error) {
	var written []string
	for _, f := range Files {
		out, err := r.Render(f.Template, data)
		if err != nil {
			return written, err
		}
		dest, err := w.Write(f.Dest, out)
		if err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}
