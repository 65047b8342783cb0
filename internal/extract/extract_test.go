package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func Test_Local_PlainText(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	got, err := l.Extract(context.Background(), []byte("  hello document \n"), "text/plain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello document" {
		t.Errorf("want trimmed text, got %q", got)
	}
}

func Test_Local_EmptyInput(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	for _, data := range [][]byte{nil, {}, []byte("   \n\t ")} {
		if _, err := l.Extract(context.Background(), data, "text/plain"); !errors.Is(err, ErrNoTextExtracted) {
			t.Errorf("Extract(%q): want ErrNoTextExtracted, got %v", data, err)
		}
	}
}

func Test_Local_BinaryGarbageRejected(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	data := []byte{0xff, 0xfe, 0x00, 0x01, 0x80, 0x81}
	if _, err := l.Extract(context.Background(), data, ""); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}

func Test_Local_TruncatedPDFRejected(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	// A PDF header with no body must not be treated as plain text.
	data := []byte("%PDF-1.7\nthis is not a real pdf")
	if _, err := l.Extract(context.Background(), data, "application/pdf"); err == nil {
		t.Error("want error for truncated PDF, got nil")
	}
}

func Test_Local_PDFDetectedByMagicBytes(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	// Declared as octet-stream, but the magic bytes route it to the PDF
	// parser, which rejects the truncated body instead of returning it as text.
	data := []byte("%PDF-1.4 junk")
	got, err := l.Extract(context.Background(), data, "application/octet-stream")
	if err == nil {
		t.Errorf("want PDF parse error, got text %q", got)
	}
}

func Test_Tika_ExtractsPlainText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("want PUT, got %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("want Accept: text/plain, got %q", got)
		}
		w.Write([]byte("  extracted by tika  \n"))
	}))
	defer srv.Close()

	tk := NewTika(srv.URL)
	got, err := tk.Extract(context.Background(), []byte("doc bytes"), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "extracted by tika" {
		t.Errorf("want trimmed tika text, got %q", got)
	}
}

func Test_Tika_UnparseableFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	tk := NewTika(srv.URL)
	if _, err := tk.Extract(context.Background(), []byte("x"), "application/x-thing"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}

func Test_Tika_EmptyResponseIsNoText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   "))
	}))
	defer srv.Close()

	tk := NewTika(srv.URL)
	if _, err := tk.Extract(context.Background(), []byte("x"), "text/plain"); !errors.Is(err, ErrNoTextExtracted) {
		t.Errorf("want ErrNoTextExtracted, got %v", err)
	}
}
