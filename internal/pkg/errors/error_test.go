package errors

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestNewErrorCarriesCaller(t *testing.T) {
	e := New("route catalog is empty")

	match, err := regexp.MatchString(`^route catalog is empty: at .*TestNewErrorCarriesCaller`, e.Error())
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Fatalf("expected %q to name its caller", e.Error())
	}
}

func TestWrapKeepsChain(t *testing.T) {
	inner := New("failed to read app/page.tsx")
	outer := Wrap(inner, "failed to scan")

	if errors.Unwrap(outer) != inner {
		t.Fatalf("expected %v to unwrap to %v", outer, inner)
	}
}

func TestWrappedSentinel(t *testing.T) {
	err := Wrap(Wrap(ErrFileTooLarge, "content/huge.md"), "skipping file")

	if !Is(err, ErrFileTooLarge) {
		t.Fatalf("expected %v to wrap %v", err, ErrFileTooLarge)
	}
	if Is(err, ErrRoutingRootUnavailable) {
		t.Fatalf("did not expect %v to wrap %v", err, ErrRoutingRootUnavailable)
	}
}

func TestCause(t *testing.T) {
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	var pathErr *fs.PathError
	if !errors.As(statErr, &pathErr) {
		t.Fatalf("expected a path error, got %v", statErr)
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "path error", err: Wrap(statErr, "failed to stat app"), want: pathErr.Err.Error()},
		{name: "too large", err: Wrap(ErrFileTooLarge, "content/huge.md"), want: "file exceeds size ceiling"},
		{name: "routing root", err: Wrap(ErrRoutingRootUnavailable, "app is not a directory"), want: "routing root unavailable"},
		{name: "plain", err: New("app/page.tsx is a directory"), want: "app/page.tsx is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cause(tt.err); got != tt.want {
				t.Fatalf("Cause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilePath(t *testing.T) {
	path := filePath()

	pattern := `^at testing.tRunner.*`
	match, err := regexp.MatchString(pattern, path)
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Fatalf("expected %q to match %q", path, pattern)
	}
}
