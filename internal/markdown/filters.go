package markdown

import (
	"path/filepath"
	"strings"
)

// isSpecialDir reports whether a path segment names one of NotePlan's
// @-prefixed folders (@Templates, @Trash, @Archive).
func isSpecialDir(name string) bool {
	return strings.HasPrefix(name, "@")
}

func isSpecialRelPath(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if isSpecialDir(part) {
			return true
		}
	}
	return false
}

func isNoteFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".txt":
		return true
	}
	return false
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// walkRoot returns dir with a trailing separator so filepath.WalkDir
// descends into it when dir is a symlink to a directory.
func walkRoot(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
