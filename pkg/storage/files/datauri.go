package files

import (
	"encoding/base64"
	"errors"
	"strings"
)

const pdfDataPrefix = "data:application/pdf;base64,"

var ErrDataURI = errors.New("ожидается строка вида data:application/pdf;base64,...")

// IsDataURI reports whether s looks like an inline base64 payload.
func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// DecodePDFDataURI decodes an inline PDF and checks that it parses.
func DecodePDFDataURI(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, pdfDataPrefix) {
		return nil, ErrDataURI
	}
	payload := strings.TrimPrefix(s, pdfDataPrefix)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, ErrDataURI
		}
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if err := CheckPDF(data); err != nil {
		return nil, err
	}
	return data, nil
}
