package storage

import (
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// ErrCorruptArchive reports a stream that is not a valid gzip container.
var ErrCorruptArchive = errors.New("corrupt archive")

// Compress gzip-encodes r into w.
func Compress(w io.Writer, r io.Reader) error {
	gz := gzip.NewWriter(w)
	if _, err := io.Copy(gz, r); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// Decompress decodes the gzip stream r into w. Invalid framing or a
// truncated/garbled payload is reported as ErrCorruptArchive; other errors
// (write failures) pass through unchanged.
func Decompress(w io.Writer, r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return ErrCorruptArchive
	}
	defer gz.Close()

	if _, err := io.Copy(w, gz); err != nil {
		if isCorrupt(err) {
			return ErrCorruptArchive
		}
		return err
	}
	return nil
}

func isCorrupt(err error) bool {
	var flateErr flate.CorruptInputError
	return errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &flateErr)
}
