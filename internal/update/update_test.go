package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckSkipsInCI(t *testing.T) {
	t.Setenv("CI", "true")
	latest, newer, err := Check("1.0.0", false)
	if err != nil || latest != "" || newer {
		t.Fatalf("expected no-op in CI, got latest=%q newer=%v err=%v", latest, newer, err)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"v1.2.3":   "1.2.3",
		"1.2.3":    "1.2.3",
		" v0.9.0 ": "0.9.0",
		"":         "",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.4", "1.2.3", 1},
		{"1.2.3", "1.10.0", -1},
		{"2.0", "1.9.9", 1},
		{"1.0.0", "1.0", 0},
	}
	for _, c := range cases {
		if got := compare(c.a, c.b); got != c.want {
			t.Errorf("compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCheckUsesFreshCache(t *testing.T) {
	t.Setenv("CI", "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "sopsguard"), 0755); err != nil {
		t.Fatal(err)
	}
	saveCache(cached{LastChecked: time.Now(), Latest: "9.9.9"})

	latest, newer, err := Check("1.0.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if latest != "9.9.9" || !newer {
		t.Fatalf("expected cached 9.9.9 to be newer, got latest=%q newer=%v", latest, newer)
	}
}
