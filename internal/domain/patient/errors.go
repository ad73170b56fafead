package patient

import (
	"errors"
	"fmt"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrFileNotFound      = errors.New("file not found")
	ErrDuplicateCRN      = errors.New("patient with this CRN already exists")
	ErrInvalidSearchType = errors.New("invalid search type")
)

// UnsupportedTypeError names the file whose extension is missing or not in
// the allow-set.
type UnsupportedTypeError struct {
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("file %s has an unsupported type", e.Filename)
}

// FileTooLargeError carries the offending filename and the configured limit.
type FileTooLargeError struct {
	Filename string
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file %s exceeds maximum size limit of %d bytes", e.Filename, e.Limit)
}
