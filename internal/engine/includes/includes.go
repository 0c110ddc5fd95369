// Package includes recovers compiler include paths from nginx's generated Makefile.
package includes

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	blockMarker = "ALL_INCS"
	includeFlag = "-I "
)

// Extract returns the include directories listed in the ALL_INCS block of the
// Makefile at makefilePath. Relative entries are resolved against the directory
// two levels above the Makefile.
func Extract(makefilePath string) ([]string, error) {
	data, err := os.ReadFile(makefilePath) //nolint:gosec // path comes from the build layout
	if err != nil {
		return nil, unreadable(err, makefilePath)
	}

	base, err := projectRoot(makefilePath)
	if err != nil {
		return nil, unreadable(err, makefilePath)
	}

	raw := scan(data)
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// CompilerArgs formats paths as -I arguments.
func CompilerArgs(paths []string) []string {
	args := make([]string, 0, len(paths))
	for _, p := range paths {
		args = append(args, "-I"+p)
	}
	return args
}

func scan(data []byte) []string {
	var (
		paths   []string
		inBlock bool
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !inBlock {
			rest, ok := strings.CutPrefix(line, blockMarker)
			if !ok {
				continue
			}
			inBlock = true
			paths = append(paths, includePaths(rest)...)
			continue
		}

		found := includePaths(line)
		if len(found) == 0 {
			break
		}
		paths = append(paths, found...)
	}
	return paths
}

// includePaths returns the token after every "-I " in line.
func includePaths(line string) []string {
	var paths []string
	for {
		_, after, ok := strings.Cut(line, includeFlag)
		if !ok {
			return paths
		}
		after = strings.TrimLeft(after, " \t")
		token := after
		if i := strings.IndexAny(after, " \t"); i >= 0 {
			token = after[:i]
		}
		token = strings.TrimSpace(strings.TrimSuffix(token, `\`))
		if token != "" {
			paths = append(paths, token)
		}
		line = after[len(token):]
	}
}

func projectRoot(makefilePath string) (string, error) {
	abs, err := filepath.Abs(filepath.Dir(filepath.Dir(makefilePath)))
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func unreadable(err error, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrMakefileUnreadable, err), "failed to read makefile"), "path", path)
}
