// Package files stores uploaded assets (logos, resumes, photos) on local disk
// or in an S3-compatible bucket.
package files

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists an object under key and returns its public URL.
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrEmpty = errors.New("пустой файл")

const timestampLayout = "20060102_150405"

var reUnsafe = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SafeName keeps the base name and replaces anything odd with "_".
func SafeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = reUnsafe.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

// LogoKey: images/company_logos/{company}/{timestamp}__{filename}.
func LogoKey(companyID uuid.UUID, filename string, now time.Time) string {
	return path.Join("images", "company_logos", companyID.String(),
		fmt.Sprintf("%s__%s", now.Format(timestampLayout), SafeName(filename)))
}

// CandidateKey: candidates/{candidate}/{kind}/{timestamp}__{filename}; kind is "resume" or "photo".
func CandidateKey(candidateID uuid.UUID, kind, filename string, now time.Time) string {
	return path.Join("candidates", candidateID.String(), kind,
		fmt.Sprintf("%s__%s", now.Format(timestampLayout), SafeName(filename)))
}
