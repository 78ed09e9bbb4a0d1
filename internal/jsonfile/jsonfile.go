package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/spf13/afero"
)

const (
	// DefaultIndent is used when WriteOptions does not ask for anything else.
	DefaultIndent = "  "
	// DefaultMode is the permission of newly created files.
	DefaultMode os.FileMode = 0o644

	dirMode os.FileMode = 0o755

	maxLinkHops = 40
)

var (
	// ErrMalformed marks content that is not a single valid JSON value.
	ErrMalformed = errors.New("malformed json")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// WriteOptions controls how Save serializes and writes a value.
// Fields it does not know about never reach this struct, so callers can forward
// their options unchanged.
type WriteOptions struct {
	// Indent is the per-level indentation. Empty means DefaultIndent.
	Indent string
	// Compact writes the value on a single line and ignores Indent.
	Compact bool
	// DetectIndent reuses the indentation found in the existing file, if any.
	DetectIndent bool
	// Mode is the permission of the written file. Zero keeps the mode of the
	// existing file, or DefaultMode for a new one.
	Mode os.FileMode
	// EscapeHTML escapes <, > and & inside strings.
	EscapeHTML bool
}

// IsNotExist reports whether err was caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// Load reads path from fsys and decodes it into out.
// A leading UTF-8 BOM is ignored. Numbers decoded into interface values are
// kept as json.Number so integers survive a round trip unchanged.
func Load(fsys afero.Fs, path string, out any) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read json file: %w", err)
	}
	if err := Decode(data, out); err != nil {
		return fmt.Errorf("decode json file %s: %w", path, err)
	}
	return nil
}

// Decode parses exactly one JSON value from data into out.
// When out is a *any, objects are decoded into *orderedmap.OrderedMap so the
// key order of data is kept; any other target uses encoding/json as is.
func Decode(data []byte, out any) error {
	data = bytes.TrimPrefix(data, utf8BOM)

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if dynamic, ok := out.(*any); ok {
		value, err := decodeOrdered(decoder)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		*dynamic = value
	} else if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after top-level value", ErrMalformed)
	}
	return nil
}

// Marshal serializes v the way Save writes it, including the trailing newline.
func Marshal(v any, opts WriteOptions) ([]byte, error) {
	return encode(v, opts.indent(), opts.EscapeHTML)
}

func encode(v any, indent string, escapeHTML bool) ([]byte, error) {
	applyEscapeHTML(v, escapeHTML)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(escapeHTML)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o WriteOptions) indent() string {
	if o.Compact {
		return ""
	}
	if o.Indent == "" {
		return DefaultIndent
	}
	return o.Indent
}

// Save serializes v and atomically replaces path with it.
// Missing parent directories are created. The value is written to a temp file
// in the target directory, synced, and renamed over path, so a reader never
// observes a partially written file. When path is a symbolic link the file it
// points to is replaced and the link is kept.
func Save(fsys afero.Fs, path string, v any, opts WriteOptions) error {
	if path == "" {
		return errors.New("json file path is required")
	}

	path, err := resolveLinks(fsys, path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	indent := opts.indent()
	mode := opts.Mode
	if info, err := fsys.Stat(path); err == nil {
		if mode == 0 {
			mode = info.Mode().Perm()
		}
		if opts.DetectIndent && !opts.Compact {
			if existing, err := afero.ReadFile(fsys, path); err == nil {
				if detected := detectIndent(existing); detected != "" {
					indent = detected
				}
			}
		}
	}
	if mode == 0 {
		mode = DefaultMode
	}

	payload, err := encode(v, indent, opts.EscapeHTML)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := fsys.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tmpFile, err := afero.TempFile(fsys, dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = tmpFile.Close()
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fsys.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace json file: %w", err)
	}
	renamed = true

	logger.WithComponent("jsonfile").Debugf("wrote %d bytes to %s", len(payload), path)
	return nil
}

// resolveLinks follows symbolic links at path on filesystems that expose them.
// A dangling link resolves to its missing target, which Save then creates.
func resolveLinks(fsys afero.Fs, path string) (string, error) {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	for range maxLinkHops {
		info, lstatCalled, err := lstater.LstatIfPossible(path)
		if err != nil {
			if IsNotExist(err) {
				return path, nil
			}
			return "", fmt.Errorf("stat json file: %w", err)
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}

		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", fmt.Errorf("read link %s: %w", path, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", fmt.Errorf("resolve %s: too many levels of symbolic links", path)
}

// detectIndent returns the leading whitespace of the first indented line.
func detectIndent(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return ""
}
