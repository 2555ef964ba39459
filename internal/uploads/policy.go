package uploads

import (
	"bytes"
	"errors"
	"fmt"

	"cv-analyzer/internal/shared/util"
)

// DefaultMaxBytes is the upload limit when none is configured.
const DefaultMaxBytes = 10 << 20

// InvalidFormatMessage is shown to clients for any unsupported extension.
const InvalidFormatMessage = "Invalid file format. Supported formats: .pdf, .doc, .docx"

var (
	ErrInvalidFormat  = errors.New(InvalidFormatMessage)
	ErrTooLarge       = errors.New("file too large")
	ErrEmpty          = errors.New("file is empty")
	ErrContentSpoofed = errors.New("file content does not match its extension")
)

// ContentTypes maps each accepted extension to the content type stored with the blob.
var ContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var magicBytes = map[string][]byte{
	".pdf":  []byte("%PDF"),
	".doc":  {0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
	".docx": {0x50, 0x4B, 0x03, 0x04},
}

// Policy validates uploaded resumes.
type Policy struct {
	MaxBytes int64
}

// NewPolicy returns a policy with maxBytes, or DefaultMaxBytes if maxBytes <= 0.
func NewPolicy(maxBytes int64) Policy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Policy{MaxBytes: maxBytes}
}

// CheckName validates the extension before the body is read and returns it.
func (p Policy) CheckName(fileName string) (string, error) {
	ext := util.Ext(fileName)
	if _, ok := ContentTypes[ext]; !ok {
		return "", ErrInvalidFormat
	}
	return ext, nil
}

// CheckContent validates size and leading bytes of the payload against ext.
func (p Policy) CheckContent(ext string, size int64, head []byte) error {
	if size <= 0 || len(head) == 0 {
		return ErrEmpty
	}
	if size > p.MaxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, p.MaxBytes)
	}
	sig, ok := magicBytes[ext]
	if !ok {
		return ErrInvalidFormat
	}
	if !bytes.HasPrefix(head, sig) {
		return ErrContentSpoofed
	}
	return nil
}
