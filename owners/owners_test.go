package owners

import (
	"os"
	"path/filepath"
	"testing"
	"testing/quick"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"23 91 8f 11", "23 91 8F 11"},
		{"  23\t91  8f\n11 ", "23 91 8F 11"},
		{"zz zz", "ZZ ZZ"},
		{"", ""},
		{"   ", ""},
		{"abcdef", "ABCDEF"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLookup(t *testing.T) {
	d := New(map[string]string{
		"23 91 8F 11": "Mehmet Can Çatık",
		"03 68 b1 0d": "Ahmet Kaya",
	})

	tests := []struct {
		uid  string
		want string
	}{
		{"23 91 8F 11", "Mehmet Can Çatık"},
		{"23 91 8f 11", "Mehmet Can Çatık"},
		{"03 68 B1 0D", "Ahmet Kaya"},
		{"ZZ ZZ", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := d.Lookup(tt.uid); got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.uid, got, tt.want)
		}
	}
}

func TestLookupEmptyDirectory(t *testing.T) {
	if got := New().Lookup("AA BB CC"); got != "unknown" {
		t.Errorf("Lookup on empty directory = %q, want %q", got, "unknown")
	}

	var d *Directory
	if got := d.Lookup("AA BB CC"); got != Unknown {
		t.Errorf("Lookup on nil directory = %q, want %q", got, Unknown)
	}
	if d.Len() != 0 {
		t.Errorf("nil directory Len = %d, want 0", d.Len())
	}
}

func TestNewLaterMapWins(t *testing.T) {
	d := New(
		map[string]string{"aa bb": "First"},
		map[string]string{"AA BB": "Second"},
	)
	if got := d.Lookup("AA BB"); got != "Second" {
		t.Errorf("Lookup = %q, want %q", got, "Second")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owners.tsv")
	content := "# front desk cards\n" +
		"23 91 8f 11\tMehmet Can Çatık\n" +
		"\n" +
		"03 68 B1 0D\t Ahmet Kaya \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write owner file: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries["23 91 8F 11"] != "Mehmet Can Çatık" {
		t.Errorf("unexpected owner %q", entries["23 91 8F 11"])
	}
	if entries["03 68 B1 0D"] != "Ahmet Kaya" {
		t.Errorf("unexpected owner %q", entries["03 68 B1 0D"])
	}
}

func TestLoadFileMissingTab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owners.tsv")
	if err := os.WriteFile(path, []byte("23 91 8F 11 Mehmet\n"), 0o644); err != nil {
		t.Fatalf("write owner file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for line without tab")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
