package detectors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sopsguard/sopsguard/internal/extract"
)

func collectAll(t *testing.T, src string) []Construct {
	t.Helper()
	docs := extract.Extract([]byte(src))
	var out []Construct
	for _, d := range docs {
		out = append(out, Collect(d)...)
	}
	return out
}

func TestCollectSecret(t *testing.T) {
	src := `apiVersion: v1
kind: Secret
metadata:
  name: creds
data:
  password: aHVudGVyMg==
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.Equal(t, KubernetesSecret, cs[0].Kind)
	require.Equal(t, 2, cs[0].Line)
	require.Nil(t, cs[0].Sops)
	require.True(t, cs[0].DataPresent)
}

func TestCollectSecretEmptyData(t *testing.T) {
	src := "apiVersion: v1\nkind: Secret\nmetadata:\n  name: empty\ndata: {}\n"
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.False(t, cs[0].DataPresent)
}

func TestCollectSecretWithSops(t *testing.T) {
	src := `apiVersion: v1
kind: Secret
metadata:
  name: creds
data:
  password: ENC[AES256_GCM,data:...]
sops:
  mac: ENC[AES256_GCM,data:mac...]
  lastmodified: "2024-01-01T00:00:00Z"
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.NotNil(t, cs[0].Sops)
}

func TestCollectSecretSopsUnderMetadata(t *testing.T) {
	src := `apiVersion: v1
kind: Secret
metadata:
  name: creds
  sops:
    mac: abc
    lastmodified: "2024-01-01T00:00:00Z"
data:
  password: ENC[...]
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.NotNil(t, cs[0].Sops)
}

func TestCollectGenerator(t *testing.T) {
	src := `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
secretGenerator:
  - name: app-secrets
    literals:
      - password=hunter2
      - token=xyz
    files:
      - secrets.enc.yaml
      - plain-secrets.yaml
`
	cs := collectAll(t, src)
	require.Len(t, cs, 4)
	require.Equal(t, GeneratorLiteral, cs[0].Kind)
	require.Equal(t, "password=hunter2", cs[0].Value)
	require.Equal(t, 6, cs[0].Line)
	require.Equal(t, GeneratorLiteral, cs[1].Kind)
	require.Equal(t, GeneratorFile, cs[2].Kind)
	require.Equal(t, "secrets.enc.yaml", cs[2].Value)
	require.Equal(t, GeneratorFile, cs[3].Kind)
	require.Equal(t, 10, cs[3].Line)
}

func TestCollectSkipsKsops(t *testing.T) {
	src := `apiVersion: viaduct.ai/v1
kind: ksops
metadata:
  name: secret-generator
files:
  - secrets.enc.yaml
`
	cs := collectAll(t, src)
	require.Empty(t, cs)
}

func TestCollectMultiDocument(t *testing.T) {
	src := `kind: ConfigMap
metadata:
  name: cfg
---
kind: Secret
metadata:
  name: s
stringData:
  token: abc
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.Equal(t, 5, cs[0].Line)
}

func TestCollectEmbeddedPatch(t *testing.T) {
	src := `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
resources:
  - deploy.yaml
patches:
  - patch: |
      apiVersion: v1
      kind: Secret
      metadata:
        name: inline
      stringData:
        token: abc123
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.Equal(t, KubernetesSecret, cs[0].Kind)
	require.Equal(t, 8, cs[0].Line, "embedded kind must rebase onto the outer file")
	require.True(t, cs[0].DataPresent)
}

func TestCollectEmbeddedGeneratorMapping(t *testing.T) {
	src := `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
patches:
  - patch: |
      secretGenerator:
        literals:
          - X=Y
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.Equal(t, GeneratorLiteral, cs[0].Kind)
	require.Equal(t, "X=Y", cs[0].Value)
	require.Equal(t, 7, cs[0].Line)
}

func TestCollectSecretInList(t *testing.T) {
	src := `apiVersion: v1
kind: List
items:
  - apiVersion: v1
    kind: Secret
    metadata:
      name: nested
    data:
      k: dg==
`
	cs := collectAll(t, src)
	require.Len(t, cs, 1)
	require.Equal(t, 5, cs[0].Line)
}
