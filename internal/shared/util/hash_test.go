package util

import "testing"

func TestSHA256Hex(t *testing.T) {
	data := []byte("We discussed Q3 budget.")
	got := SHA256Hex(data)
	if got != SHA256Hex(data) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"; SHA256Hex(nil) != want {
		t.Fatalf("unexpected empty digest %s", SHA256Hex(nil))
	}
}
