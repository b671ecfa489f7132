package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a one-page document with a valid xref table.
func minimalPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"resume.pdf":           "resume.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\ivan\cv.pdf`: "cv.pdf",
		"my cv (final).pdf":    "my_cv_final_.pdf",
		"Резюме Иванова.docx":  "Резюме_Иванова.docx",
		"..":                   "file",
		"":                     "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeName(in), in)
	}
}

func TestKeyTemplates(t *testing.T) {
	id := uuid.MustParse("7f1c2a9e-8f3e-4a57-9d7e-2f6b8b1c0d11")
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "images/company_logos/"+id.String()+"/20240305_140709__logo.png", LogoKey(id, "logo.png", now))
	assert.Equal(t, "candidates/"+id.String()+"/resume/20240305_140709__cv.pdf", CandidateKey(id, "resume", "cv.pdf", now))
	assert.Equal(t, "candidates/"+id.String()+"/photo/20240305_140709__me.jpg", CandidateKey(id, "photo", "../me.jpg", now))
}

func TestLocalSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root, "/media")
	ctx := context.Background()

	url, err := store.Save(ctx, "images/company_logos/x/logo.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/media/images/company_logos/x/logo.png", url)

	data, err := os.ReadFile(filepath.Join(root, "images", "company_logos", "x", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, store.Delete(ctx, "images/company_logos/x/logo.png"))
	_, err = os.Stat(filepath.Join(root, "images", "company_logos", "x", "logo.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "images/company_logos/x/logo.png"))
}

func TestLocalRejectsBadInput(t *testing.T) {
	store := NewLocal(t.TempDir(), "/media/")
	ctx := context.Background()

	_, err := store.Save(ctx, "a.txt", "text/plain", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = store.Save(ctx, "../escape.txt", "text/plain", []byte("x"))
	assert.Error(t, err)

	_, err = store.Save(ctx, "/etc/escape.txt", "text/plain", []byte("x"))
	assert.Error(t, err)
}

func TestCheckPDF(t *testing.T) {
	assert.NoError(t, CheckPDF(minimalPDF()))
	assert.ErrorIs(t, CheckPDF([]byte("hello world")), ErrNotPDF)
	assert.ErrorIs(t, CheckPDF([]byte("%PDF-1.4\ngarbage")), ErrNotPDF)
}

func TestDecodePDFDataURI(t *testing.T) {
	doc := minimalPDF()

	data, err := DecodePDFDataURI("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	data, err = DecodePDFDataURI("data:application/pdf;base64," + base64.RawStdEncoding.EncodeToString(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	_, err = DecodePDFDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString(doc))
	assert.ErrorIs(t, err, ErrDataURI)

	_, err = DecodePDFDataURI("data:application/pdf;base64,@@not-base64@@")
	assert.ErrorIs(t, err, ErrDataURI)

	_, err = DecodePDFDataURI("data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = DecodePDFDataURI("data:application/pdf;base64,")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI(" data:application/pdf;base64,AAAA"))
	assert.False(t, IsDataURI("https://cdn.example.com/cv.pdf"))
}

func TestResumeTextRejectsUnknownFormat(t *testing.T) {
	_, err := ResumeText("cv.txt", []byte("text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
