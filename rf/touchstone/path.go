package touchstone

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

var extPattern = regexp.MustCompile(`(?i)^\.s(\d+)p$`)

// PortsFromPath returns the port count encoded in a ".sNp" extension.
func PortsFromPath(path string) (int, error) {
	m := extPattern.FindStringSubmatch(filepath.Ext(path))
	if m == nil {
		return 0, fmt.Errorf("%w: no .sNp extension in %q", ErrPortCount, path)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrPortCount, path)
	}
	return n, nil
}

// Ext returns the conventional extension for an n-port, e.g. ".s4p".
func Ext(nports int) string {
	return ".s" + strconv.Itoa(nports) + "p"
}
