package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions lists the input formats LoadFile can dispatch on.
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// IsSupported reports whether path has a loadable extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// DiscoverInputs lists the loadable files in dir, sorted by name so
// repeated runs process inputs in a stable order.
func DiscoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupported(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// ExpandInputs resolves a mix of file and directory arguments into a flat
// list of loadable files. Directories are expanded non-recursively; explicit
// file arguments are kept as given so an unsupported extension still reaches
// LoadFile and produces its error.
func ExpandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := DiscoverInputs(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no csv or xlsx files in %s", arg)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
