package linguist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Load parses a TS document, the primary catalog format.
func Load(data []byte, opts ...Option) (*Catalog, error) {
	return ParseTS(data, opts...)
}

type parseFunc func(data []byte, opts ...Option) (*Catalog, error)

var parsers = map[string]parseFunc{
	".ts":   ParseTS,
	".mo":   ParseMO,
	".po":   ParsePO,
	".yaml": ParseYAML,
	".yml":  ParseYAML,
}

// IsCatalogFile reports whether LoadFile knows how to read path.
func IsCatalogFile(path string) bool {
	_, _, err := formatOf(path)
	return err == nil
}

func formatOf(path string) (parse parseFunc, compression string, err error) {
	name := strings.ToLower(filepath.Base(path))
	switch ext := filepath.Ext(name); ext {
	case ".gz", ".zst":
		compression = ext
		name = strings.TrimSuffix(name, ext)
	}
	parse, ok := parsers[filepath.Ext(name)]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}
	return parse, compression, nil
}

// LoadFile reads and parses the catalog at path. The format follows from
// the extension: .ts, .mo, .po, .yaml or .yml, optionally compressed with
// gzip (.gz) or zstd (.zst).
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	parse, compression, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if compression != "" {
		data, err := decompress(f, compression)
		if err != nil {
			return nil, fmt.Errorf("cannot decompress %s: %w", path, err)
		}
		return parsed(path, parse, data, opts)
	}

	d, err := readCatalogData(f)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return parsed(path, parse, d.data, opts)
}

func parsed(path string, parse parseFunc, data []byte, opts []Option) (*Catalog, error) {
	c, err := parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Logger.Debug().Str("file", path).Str("language", c.Language()).Int("messages", c.Len()).Msg("Loaded catalog")
	return c, nil
}

func decompress(r io.Reader, compression string) ([]byte, error) {
	switch compression {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(r)
}

// FileLoader returns a LoaderFunc reading path with LoadFile, for use with
// Active.Reload.
func FileLoader(path string, opts ...Option) LoaderFunc {
	return func(ctx context.Context) (*Catalog, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadFile(path, opts...)
	}
}
