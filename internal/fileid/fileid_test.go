package fileid

import "testing"

func TestDocIDDeterministic(t *testing.T) {
	a := DocID("/data/docs/report.pdf")
	b := DocID("/data/docs/report.pdf")
	if a != b {
		t.Errorf("same path must give same ID: %q vs %q", a, b)
	}
	if !IsFileID(a) {
		t.Errorf("missing prefix: %q", a)
	}
}

func TestDocIDDistinct(t *testing.T) {
	if DocID("/data/a.txt") == DocID("/data/b.txt") {
		t.Error("different paths must give different IDs")
	}
}

func TestDocIDCleansPath(t *testing.T) {
	a := DocID("/data/docs/report.pdf")
	b := DocID("/data/./docs//report.pdf")
	c := DocID("/data/docs/report.pdf/")
	if a != b || a != c {
		t.Errorf("path variants must normalize to one ID: %q %q %q", a, b, c)
	}
}

func TestIsFileID(t *testing.T) {
	if IsFileID("d4c1a2") {
		t.Error("plain UUID-ish string is not a file ID")
	}
	if IsFileID("file:") {
		t.Error("bare prefix is not a valid file ID")
	}
}
