// Package files performs the small pieces of repository surgery the CLI
// offers: installing the pre-commit hook script and keeping .gitignore
// entries up to date. Everything here is idempotent.
package files

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const hookScript = `#!/bin/sh
# installed by sopsguard install-hook
exec sopsguard check --staged
`

// InstallHook writes .git/hooks/pre-commit invoking sopsguard on the staged
// set. An existing hook that was not written by sopsguard is left alone and
// an error returned, so user hooks are never clobbered.
func InstallHook(repoRoot string) error {
	hooksDir := filepath.Join(repoRoot, ".git", "hooks")
	if st, err := os.Stat(hooksDir); err != nil || !st.IsDir() {
		return fmt.Errorf("no .git/hooks directory under %s", repoRoot)
	}
	path := filepath.Join(hooksDir, "pre-commit")
	if b, err := os.ReadFile(path); err == nil {
		if strings.Contains(string(b), "sopsguard") {
			return nil
		}
		return errors.New("a pre-commit hook already exists; add 'sopsguard check --staged' to it manually")
	}
	return os.WriteFile(path, []byte(hookScript), 0755)
}

// AppendIgnore ensures the given pattern is present in .gitignore at
// repoRoot. It creates the file if missing. Idempotent.
func AppendIgnore(repoRoot, pattern string) error {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	if f, err := os.Open(path); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		_ = f.Close()
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(pattern + "\n")
	return err
}
