package corefmt

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"

	"github.com/zintix-labs/pqlab/errs"
)

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, err
}

func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode hex failed")
	}
	return b, err
}

// Fingerprint 取字串的 sha256 前 12 個 hex 字元。
// 用於對比兩個 generator state 是否相同，不用把整串 state 印進 log。
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:6])
}

// PackStateToken 把 state word 與旋轉位置打包成緊湊的 URL-safe token。
//
// 佈局：uvarint(len(words)) || words(little-endian uint64...) || pos(1 byte)。
// 文字版 state（空白分隔十進位）適合存檔與人讀；token 適合塞進
// query string 或 JSON 欄位。
func PackStateToken(words []uint64, pos int) string {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(words)))

	out := make([]byte, 0, n+8*len(words)+1)
	out = append(out, hdr[:n]...)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint64(out, w)
	}
	out = append(out, byte(pos))
	return EncodeBase64URL(out)
}

// UnpackStateToken 還原 PackStateToken 的輸出。
func UnpackStateToken(token string) ([]uint64, int, error) {
	raw, err := DecodeBase64URL(token)
	if err != nil {
		return nil, 0, errs.WrapKind(err, errs.SeedFormat, "unpack state token failed")
	}
	count, size := binary.Uvarint(raw)
	if size <= 0 {
		return nil, 0, errs.SeedFormatf("unpack state token failed: invalid length header")
	}
	want := size + int(count)*8 + 1
	if count > 1<<16 || len(raw) != want {
		return nil, 0, errs.SeedFormatf("unpack state token failed: length mismatch (got %d bytes)", len(raw))
	}

	words := make([]uint64, count)
	off := size
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(raw[off:])
		off += 8
	}
	pos := int(raw[off])
	if pos >= len(words) {
		return nil, 0, errs.SeedFormatf("unpack state token failed: pos %d out of range", pos)
	}
	return words, pos, nil
}
