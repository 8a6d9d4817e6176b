package ignore

import "testing"

func TestResolveFileMarker(t *testing.T) {
	data := []byte("# sops-pre-commit: ignore-file\napiVersion: v1\nkind: Secret\n")
	d := Resolve(data)
	if !d.FileIgnored {
		t.Fatal("expected file-level ignore")
	}
}

func TestResolveFileMarkerOnlyInHeader(t *testing.T) {
	data := []byte("a: 1\nb: 2\nc: 3\nd: 4\n# sops-pre-commit: ignore-file\n")
	d := Resolve(data)
	if d.FileIgnored {
		t.Fatal("marker past the header must not ignore the file")
	}
}

func TestResolveLineMarkers(t *testing.T) {
	data := []byte("kind: Secret\ndata:\n  password: aHVudGVyMg== # sops-pre-commit: ignore-line\n  token: eHl6\n")
	d := Resolve(data)
	if d.FileIgnored {
		t.Fatal("unexpected file ignore")
	}
	if !d.Ignored(3) {
		t.Error("line 3 should be ignored")
	}
	if d.Ignored(4) {
		t.Error("line 4 should not be ignored")
	}
}

func TestResolveEmpty(t *testing.T) {
	d := Resolve(nil)
	if d.FileIgnored || len(d.Lines) != 0 {
		t.Fatalf("unexpected directives for empty input: %+v", d)
	}
}
