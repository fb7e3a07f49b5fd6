package main

import (
	"io"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// atomicWriteFile writes text to path using renameio: the new content
// lands in a temp file in the same directory first, then an atomic
// rename replaces path, so a crash mid-write can't corrupt the original.
func atomicWriteFile(path, text string) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return errors.Wrap(err, "renameio.NewPendingFile")
	}
	defer pf.Cleanup()

	if _, err := io.Copy(pf, strings.NewReader(text)); err != nil {
		return errors.Wrap(err, "writing pending file")
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "renameio.CloseAtomicallyReplace")
	}
	return nil
}
