package detectors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sopsguard/sopsguard/internal/types"
)

func validateSrc(t *testing.T, src string, opts Options) []*types.Violation {
	t.Helper()
	var out []*types.Violation
	for _, c := range collectAll(t, src) {
		if v := Validate("f.yaml", c, opts); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func TestValidateUnencryptedSecret(t *testing.T) {
	src := "apiVersion: v1\nkind: Secret\nmetadata:\n  name: s\ndata:\n  k: dg==\n"
	vs := validateSrc(t, src, DefaultOptions())
	require.Len(t, vs, 1)
	require.Equal(t, RuleUnencryptedSecret, vs[0].Rule)
	require.Equal(t, types.SevHigh, vs[0].Severity)
	require.Equal(t, 2, vs[0].Line)
}

func TestValidateEmptySecretLowerSeverity(t *testing.T) {
	src := "apiVersion: v1\nkind: Secret\nmetadata:\n  name: s\n"
	vs := validateSrc(t, src, DefaultOptions())
	require.Len(t, vs, 1)
	require.Equal(t, types.SevMed, vs[0].Severity)
}

func TestValidateEncryptedSecretPasses(t *testing.T) {
	src := `apiVersion: v1
kind: Secret
metadata:
  name: s
data:
  k: ENC[AES256_GCM,data:abc]
sops:
  mac: ENC[AES256_GCM,data:mac]
  lastmodified: "2024-01-01T00:00:00Z"
`
	require.Empty(t, validateSrc(t, src, DefaultOptions()))
}

func TestValidateSopsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		sops string
		want string
	}{
		{"no mac", "sops:\n  lastmodified: \"2024-01-01\"\n", "mac"},
		{"no lastmodified", "sops:\n  mac: abc\n", "lastmodified"},
		{"empty mac", "sops:\n  mac: \"\"\n  lastmodified: \"2024-01-01\"\n", "mac"},
		{"null mac", "sops:\n  mac: null\n  lastmodified: \"2024-01-01\"\n", "mac"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := "apiVersion: v1\nkind: Secret\nmetadata:\n  name: s\n" + tc.sops
			vs := validateSrc(t, src, DefaultOptions())
			require.Len(t, vs, 1)
			require.Equal(t, RuleSopsMetadata, vs[0].Rule)
			require.Contains(t, vs[0].Message, tc.want)
		})
	}
}

func TestValidateGeneratorLiteral(t *testing.T) {
	src := "secretGenerator:\n  - name: s\n    literals:\n      - password=hunter2\n"
	vs := validateSrc(t, src, DefaultOptions())
	require.Len(t, vs, 1)
	require.Equal(t, RuleGeneratorLiteral, vs[0].Rule)
	require.Contains(t, vs[0].Message, `"password"`)
	require.NotContains(t, vs[0].Message, "hunter2", "the secret value must never appear in output")
}

func TestValidateGeneratorFiles(t *testing.T) {
	cases := []struct {
		file string
		ok   bool
	}{
		{"secrets.enc.yaml", true},
		{"secrets.sops.yaml", true},
		{"secrets.enc.yml", true},
		{"SECRETS.ENC.YAML", true},
		{"key=creds.sops.yaml", true},
		{"secrets.yaml", false},
		{"secrets.enc", false},
		{"key=creds.yaml", false},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			src := "secretGenerator:\n  - name: s\n    files:\n      - " + tc.file + "\n"
			vs := validateSrc(t, src, DefaultOptions())
			if tc.ok {
				require.Empty(t, vs)
			} else {
				require.Len(t, vs, 1)
				require.Equal(t, RuleGeneratorFile, vs[0].Rule)
			}
		})
	}
}

func TestValidateCustomSuffixes(t *testing.T) {
	opts := DefaultOptions().WithSuffixes([]string{".Encrypted.yaml"})
	src := "secretGenerator:\n  - name: s\n    files:\n      - creds.encrypted.yaml\n"
	require.Empty(t, validateSrc(t, src, opts))

	src = "secretGenerator:\n  - name: s\n    files:\n      - creds.enc.yaml\n"
	require.Len(t, validateSrc(t, src, opts), 1, "override replaces the default list")
}
