// Package git reads the staged change set so the pre-commit check validates
// exactly what will be committed, not what happens to sit in the working
// tree. It uses go-git rather than shelling out, which keeps the hook fast
// and portable.
package git

import (
	"fmt"
	"io"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// StagedFiles returns the paths staged for commit and their staged blob
// contents, read from the index so partially staged files are validated as
// they will be committed.
func StagedFiles(root string) ([]string, [][]byte, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, nil, fmt.Errorf("read worktree status: %w", err)
	}

	var paths []string
	for p, st := range status {
		switch st.Staging {
		case gogit.Added, gogit.Modified, gogit.Renamed, gogit.Copied:
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, nil, fmt.Errorf("read index: %w", err)
	}
	data := make([][]byte, len(paths))
	for i, p := range paths {
		e, err := idx.Entry(p)
		if err != nil {
			continue
		}
		blob, err := object.GetBlob(repo.Storer, e.Hash)
		if err != nil {
			continue
		}
		r, err := blob.Reader()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(r)
		_ = r.Close()
		if err == nil {
			data[i] = b
		}
	}
	return paths, data, nil
}
