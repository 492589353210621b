package coexstats

import (
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandHome expands ~ to its proper path, where appropriate. Google Storage
// paths are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path
		}
		if path == "~" {
			return usr.HomeDir
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}
