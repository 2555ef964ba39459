// Package extract turns uploaded CV files into plain text when no document
// analysis service is available.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

const (
	// MaxTextBytes caps extracted text. A résumé is a few KiB; anything past
	// this is padding or a decompression bomb.
	MaxTextBytes = 1 << 20
	// maxPartBytes caps how much of a decompressed DOCX part is parsed.
	maxPartBytes = 32 << 20
)

// ErrUnsupported is returned for formats that cannot be read locally,
// including legacy .doc files.
var ErrUnsupported = errors.New("unsupported document format")

// ErrNoText is returned when a document parses but holds no text.
var ErrNoText = errors.New("document has no text content")

var readers = map[string]func([]byte) (string, error){
	MimePDF:  readPDF,
	MimeDOCX: readDOCX,
}

// FromBytes extracts the text of data, resolving its type with DetectType.
func FromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := DetectType(mimeType, fileName, data)
	read, ok := readers[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	text, err := read(data)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Ext(fileName), err)
	}
	text = strings.TrimSpace(Clip(text, MaxTextBytes))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// readPDF converts parser panics on malformed files into errors.
func readPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if _, err := io.Copy(&out, io.LimitReader(plain, MaxTextBytes)); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Clip shortens s to at most n bytes without splitting a UTF-8 sequence.
func Clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func readDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	entry := zipEntry(zr, "word/document.xml")
	if entry == nil {
		return "", errors.New("word/document.xml missing")
	}
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	part := &io.LimitedReader{R: rc, N: maxPartBytes}
	text, err := wordText(part)
	if err != nil && part.N == 0 {
		// Cut off at maxPartBytes; keep what was read before the cut.
		return text, nil
	}
	return text, err
}

// wordText collects run text from WordprocessingML, ending a line at each
// paragraph or break and keeping tabs. It stops once MaxTextBytes are
// collected.
func wordText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out strings.Builder
	inText := false
	for out.Len() < MaxTextBytes {
		tok, err := dec.Token()
		if err == io.EOF {
			return out.String(), nil
		}
		if err != nil {
			return out.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				if out.Len() > 0 {
					out.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return out.String(), nil
}

func zipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, `\`, "/") == name {
			return f
		}
	}
	return nil
}

// DetectType resolves the effective document type. A specific declared
// content type wins; generic ones defer to the zip layout and then the
// file extension.
func DetectType(mimeType, fileName string, data []byte) string {
	declared, _, _ := strings.Cut(mimeType, ";")
	declared = strings.ToLower(strings.TrimSpace(declared))
	switch declared {
	case "", "application/zip", "application/octet-stream":
	default:
		return declared
	}

	if kind := officeType(data); kind != "" {
		return kind
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".doc":
		return MimeDOC
	}
	if declared == "" {
		return "application/octet-stream"
	}
	return declared
}

// officeType recognises Office Open XML packages by their main part.
func officeType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	switch {
	case zipEntry(zr, "word/document.xml") != nil:
		return MimeDOCX
	case zipEntry(zr, "xl/workbook.xml") != nil:
		return mimeXLSX
	case zipEntry(zr, "ppt/presentation.xml") != nil:
		return mimePPTX
	}
	return ""
}
