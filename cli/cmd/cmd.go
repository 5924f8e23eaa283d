package cmd

import (
	"context"
	"hash/fnv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ardnew/marq/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type loggerKey struct{}

// WithLogger returns a new context.Context carrying the logger used by
// commands and passed on to the parser.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(log.Logger); ok {
		return logger
	}

	return log.Default()
}

type stdinKey struct{}

// WithStdin returns a new context.Context whose "-" source reads from r
// instead of [os.Stdin].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName names the stdin source in output.
const stdinName = "<stdin>"

// Source is the decoded text of one input.
type Source struct {
	Name string
	Text string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources reads each of paths once, in order.
//
// Paths naming the same file (through symlinks, relative paths, or "-" and
// /dev/stdin) are read only at their first occurrence. Files ending in .gz or
// .zst are decompressed.
func readSources(ctx context.Context, paths []string) ([]Source, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	logger := loggerFrom(ctx)
	stdin := stdinFrom(ctx)

	seen := make(map[fileKey]struct{})

	var inKey *fileKey

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			if key, ok := makeFileKey(info); ok {
				inKey = &key
			}
		}
	}

	sources := make([]Source, 0, len(paths))

	for _, path := range paths {
		if path != stdinSource {
			key, err := statKey(path)
			if err != nil {
				return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
			}

			if inKey != nil && key == *inKey {
				path = stdinSource
			} else {
				if _, dup := seen[key]; dup {
					logger.DebugContext(ctx, "skip duplicate source",
						slog.String("path", path))

					continue
				}

				seen[key] = struct{}{}
			}
		}

		if path == stdinSource {
			if stdin == nil {
				continue
			}

			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
			}

			sources = append(sources, Source{Name: stdinName, Text: string(data)})
			stdin = nil

			continue
		}

		text, err := readFile(path)
		if err != nil {
			return nil, err
		}

		sources = append(sources, Source{Name: path, Text: text})
	}

	if len(sources) == 0 {
		return nil, ErrNoSource
	}

	return sources, nil
}

// readSource reads a single source.
func readSource(ctx context.Context, path string) (Source, error) {
	sources, err := readSources(ctx, []string{path})
	if err != nil {
		return Source{}, err
	}

	return sources[0], nil
}

func readFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	r, err := decompress(path, file)
	if err != nil {
		return "", ErrDecompress.Wrap(err).With(slog.String("path", path))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", ErrDecompress.Wrap(err).With(slog.String("path", path))
	}

	return string(data), nil
}

// decompress wraps r with a decoder chosen by the extension of path.
func decompress(path string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return gzip.NewReader(r)

	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil

	default:
		return io.NopCloser(r), nil
	}
}

// statKey resolves path and returns the identity of the file it names.
func statKey(path string) (fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if !ok {
		// Without device and inode numbers, fall back to the path itself.
		return fileKey{dev: ^uint64(0), ino: hashPath(resolved)}, nil
	}

	return key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func hashPath(path string) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, path)

	return h.Sum64()
}
