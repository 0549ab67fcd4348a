// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

import (
	"errors"
	"fmt"
)

// Kind : 錯誤分類，讓呼叫端不靠字串比對就能分辨錯誤種類。
//
// 所有錯誤都在偵測當下立刻拋出，不做內部重試（rejection sampling 的
// 重抽迴圈是演算法的一部分，不屬於錯誤路徑）。
type Kind uint8

const (
	// Internal 非預期的內部錯誤（多半來自標準庫或三方依賴）。
	Internal Kind = iota
	// Domain 分布參數不合法（scale/shape 非正、max <= min 等），建構時即拋出。
	Domain
	// SeedFormat state-string 格式錯誤（字數不足、宣告長度不符、旋轉索引越界）。
	// 種子失敗後產生器處於未定義狀態，呼叫端不得繼續使用。
	SeedFormat
	// FileAccess 狀態檔無法開啟（讀：不存在/不可讀；寫：不可建立/截斷）。
	FileAccess
	// Range 請求的整數區間超出產生器可表示的熵容量。
	Range
)

var kindMap = map[Kind]string{
	Internal:   "internal",
	Domain:     "domain",
	SeedFormat: "seed-format",
	FileAccess: "file-access",
	Range:      "range",
}

func KindStr(k Kind) string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return "internal"
}

// E 是統一的錯誤型別。
// Message 為經過樣板格式化後的主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；Kind 表示錯誤分類。
type E struct {
	Message string
	Extra   string
	Cause   error
	Kind    Kind
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("kind=%s %s", KindStr(e.Kind), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依分類與訊息建立錯誤。
func New(kind Kind, msg string) *E {
	return &E{Message: msg, Kind: kind}
}

func Domainf(format string, a ...any) *E {
	return New(Domain, fmt.Sprintf(format, a...))
}

func SeedFormatf(format string, a ...any) *E {
	return New(SeedFormat, fmt.Sprintf(format, a...))
}

func FileAccessf(format string, a ...any) *E {
	return New(FileAccess, fmt.Sprintf(format, a...))
}

func Rangef(format string, a ...any) *E {
	return New(Range, fmt.Sprintf(format, a...))
}

func Internalf(format string, a ...any) *E {
	return New(Internal, fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(kind Kind, msg string, extra string) *E {
	e := New(kind, msg)
	e.Extra = extra
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// Kind 規則：
//   - 若 cause 已經是 *E，則沿用其 Kind（保持原本分類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），
//     則一律視為 Internal。
func Wrap(cause error, msg string) *E {
	var e *E
	kind := Internal
	if errors.As(cause, &e) {
		kind = e.Kind
	}
	r := New(kind, msg)
	r.Cause = cause
	return r
}

// WrapKind 同 Wrap，但強制指定分類（例如把 os.Open 的錯誤歸為 FileAccess）。
func WrapKind(cause error, kind Kind, msg string) *E {
	r := New(kind, msg)
	r.Cause = cause
	return r
}

// IsKind 回報 err 鏈上是否有分類為 kind 的 *E。
func IsKind(err error, kind Kind) bool {
	var e *E
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}
