package corefmt_test

import (
	"testing"

	"github.com/zintix-labs/pqlab/corefmt"
	"github.com/zintix-labs/pqlab/errs"
)

func TestStateTokenRoundTrip(t *testing.T) {
	words := []uint64{1, 2, 0xffffffffffffffff, 42}
	token := corefmt.PackStateToken(words, 3)

	back, pos, err := corefmt.UnpackStateToken(token)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if pos != 3 {
		t.Fatalf("pos = %d, want 3", pos)
	}
	if len(back) != len(words) {
		t.Fatalf("len = %d, want %d", len(back), len(words))
	}
	for i := range words {
		if back[i] != words[i] {
			t.Errorf("word %d = %d, want %d", i, back[i], words[i])
		}
	}
}

func TestStateTokenMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-token!!",
		corefmt.EncodeBase64URL([]byte{4, 1, 2, 3}), // 長度不合
	}
	for _, c := range cases {
		if _, _, err := corefmt.UnpackStateToken(c); err == nil {
			t.Errorf("token %q: expected error", c)
		} else if !errs.IsKind(err, errs.SeedFormat) {
			t.Errorf("token %q: kind = %v, want SeedFormat", c, err)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	a := corefmt.Fingerprint("1 2 3 16 0")
	b := corefmt.Fingerprint("1 2 3 16 0")
	c := corefmt.Fingerprint("1 2 3 16 1")
	if a != b {
		t.Errorf("fingerprint not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different states share a fingerprint")
	}
	if len(a) != 12 {
		t.Errorf("fingerprint length = %d, want 12", len(a))
	}
}
