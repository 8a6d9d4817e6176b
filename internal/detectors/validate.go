package detectors

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/sopsguard/sopsguard/internal/types"
)

// Rule identifiers attached to violations.
const (
	RuleUnencryptedSecret = "unencrypted-secret"
	RuleSopsMetadata      = "sops-metadata"
	RuleGeneratorLiteral  = "generator-literal"
	RuleGeneratorFile     = "generator-file"
)

// Options control validation behavior.
type Options struct {
	// EncryptedSuffixes are the filename suffixes accepted as proof that a
	// referenced file is SOPS-encrypted. Matched case-insensitively.
	EncryptedSuffixes []string
}

// DefaultOptions returns the stock encrypted-suffix convention.
func DefaultOptions() Options {
	return Options{EncryptedSuffixes: []string{".enc.yaml", ".sops.yaml", ".enc.yml", ".sops.yml"}}
}

// WithSuffixes overrides the encrypted-suffix list when the caller supplies
// one, normalizing for case-insensitive matching.
func (o Options) WithSuffixes(suffixes []string) Options {
	if len(suffixes) == 0 {
		return o
	}
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = strings.ToLower(s)
	}
	o.EncryptedSuffixes = out
	return o
}

// Validate classifies a construct. A nil return means encrypted, or
// otherwise not a violation. Classification is purely structural: no
// decryption, no network, no file I/O.
func Validate(path string, c Construct, opts Options) *types.Violation {
	switch c.Kind {
	case KubernetesSecret:
		return validateSecret(path, c)
	case GeneratorLiteral:
		key := c.Value
		if i := strings.Index(key, "="); i > 0 {
			key = key[:i]
		}
		return &types.Violation{
			Path:     path,
			Line:     c.Line,
			Rule:     RuleGeneratorLiteral,
			Severity: types.SevHigh,
			Message:  fmt.Sprintf("secretGenerator literal %q is plaintext; literal values can never be encrypted in place", key),
		}
	case GeneratorFile:
		// kustomize allows "key=path" entries; the filename is what matters.
		name := c.Value
		if i := strings.LastIndex(name, "="); i >= 0 {
			name = name[i+1:]
		}
		lower := strings.ToLower(name)
		for _, s := range opts.EncryptedSuffixes {
			if strings.HasSuffix(lower, s) {
				return nil
			}
		}
		return &types.Violation{
			Path:     path,
			Line:     c.Line,
			Rule:     RuleGeneratorFile,
			Severity: types.SevHigh,
			Message:  fmt.Sprintf("secretGenerator file %q lacks an encrypted-file suffix (%s)", name, strings.Join(opts.EncryptedSuffixes, ", ")),
		}
	}
	return nil
}

func validateSecret(path string, c Construct) *types.Violation {
	if c.Sops == nil {
		// An empty Secret leaks nothing yet, so it is flagged at a lower
		// severity than one carrying data.
		sev := types.SevMed
		if c.DataPresent {
			sev = types.SevHigh
		}
		return &types.Violation{
			Path:     path,
			Line:     c.Line,
			Rule:     RuleUnencryptedSecret,
			Severity: sev,
			Message:  "Kubernetes Secret is not encrypted with SOPS (no sops metadata)",
		}
	}
	var missing []string
	if !nonEmptyScalar(mappingValue(c.Sops, "mac")) {
		missing = append(missing, "mac")
	}
	if !nonEmptyScalar(mappingValue(c.Sops, "lastmodified")) {
		missing = append(missing, "lastmodified")
	}
	if len(missing) > 0 {
		return &types.Violation{
			Path:     path,
			Line:     c.Line,
			Rule:     RuleSopsMetadata,
			Severity: types.SevHigh,
			Message:  fmt.Sprintf("SOPS metadata is missing required field(s): %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

func nonEmptyScalar(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && strings.TrimSpace(n.Value) != "" && n.Tag != "!!null"
}
