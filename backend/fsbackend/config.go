package fsbackend

import (
	"bytes"
	"path/filepath"

	"github.com/colinmarc/gitgo/ginternals/config"
	"github.com/colinmarc/gitgo/internal/gitpath"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// setDefaultCfg writes the default git configuration for a freshly
// initialized repository.
func (b *Backend) setDefaultCfg() error {
	f := config.DefaultFile()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return xerrors.Errorf("could not render default config: %w", err)
	}

	p := filepath.Join(b.root, gitpath.ConfigPath)
	if err := afero.WriteFile(b.fs, p, buf.Bytes(), 0o644); err != nil {
		return xerrors.Errorf("could not write %s: %w", p, err)
	}
	return nil
}
