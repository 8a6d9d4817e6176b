package engine

import (
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Walk traverses the working tree under cfg.Root and invokes handle for
// each eligible text file. Oversize, binary, excluded, and unreadable files
// are skipped without error; a tree walk tolerates whatever it meets.
func Walk(cfg Config, handle func(path string, data []byte)) error {
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		info, _ := d.Info()
		if cfg.MaxBytes > 0 && info != nil && info.Size() > cfg.MaxBytes {
			return nil
		}
		lower := strings.ToLower(rel)
		if cfg.DefaultExcludes && isDefaultFileExcluded(lower) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if looksBinary(b) || looksNonTextMIME(rel) {
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// looksBinary flags content with NUL bytes in its first kilobyte; the tool
// scans text only.
func looksBinary(b []byte) bool {
	const sniff = 1024
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME uses the file extension to skip clearly non-text
// content in addition to NUL-byte detection.
func looksNonTextMIME(path string) bool {
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		return false
	}
	if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
		return true
	}
	return strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip")
}
