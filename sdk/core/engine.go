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

package core

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/pqlab/errs"
)

const (
	mantissaBits = 53

	// scaleUneven 把完整的 64-bit 整數映到 (0, 1]。
	scaleUneven = 0x1p-64
	// scaleEven 對應 53-bit 截斷後的等距網格。
	scaleEven = 0x1p-53
)

// Engine 在 Source 之上疊出精準分位抽樣需要的均勻變量。
//
// 三種 uniform 各有用途：
//
//   - Uneven：quasiuniform，(0, 2^-54) 以下自動補熵，保證任何回傳值
//     的相對捨入誤差不超過半個 ULP。分位函數的輸入一律用這個。
//   - HalfUneven：Uneven 的一半，落在 (0, 0.5]，配合 flip-flop 用。
//   - Even：傳統的 53-bit 等距 uniform，給不在乎極小值解析度的場合。
//
// Bool 維護一個獨立的 bit cache，每個 64-bit 字供應 62 個決策位
// （最低 badBits 位不用，xorshift 家族的低位品質較差）。
// Engine 不做任何鎖；並行時一條 goroutine 一顆 Engine，用 Jump 隔開序列。
type Engine struct {
	src Source

	bitCache  uint64
	cacheMask uint64

	// 由 src.BadBits() 導出，建構時算好。
	replenish  uint64
	minEntropy uint64
}

// NewEngine 建立並以 crypto/rand 自動播種的 Engine。
func NewEngine() (*Engine, error) {
	return NewEngineFrom(Default(), true)
}

// NewEngineDeferred 建立尚未播種的 Engine，呼叫端必須先
// Seed / SeedFromString / SeedFromFile 才能抽樣。
func NewEngineDeferred() *Engine {
	eng, _ := NewEngineFrom(Default(), false)
	return eng
}

// NewEngineFrom 用指定的 SourceFactory 建 Engine。autoSeed 為 true 時
// 立即從 OS 熵池播種。
func NewEngineFrom(factory SourceFactory, autoSeed bool) (*Engine, error) {
	src := factory.New()
	bad := src.BadBits()
	eng := &Engine{
		src:        src,
		replenish:  1 << (bad - 1),
		minEntropy: 1 << (mantissaBits + bad - 1),
	}
	eng.resetBitCache()
	if autoSeed {
		if err := eng.Seed(); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// resetBitCache 把 cache 標成「空」，下一次 Bool 會重新取字。
func (e *Engine) resetBitCache() {
	e.bitCache = 0
	e.cacheMask = e.replenish
}

// Source 回傳底層產生器，給需要直接取原始字的呼叫端
//（例如整數映射要自己丟掉低位）。
func (e *Engine) Source() Source { return e.src }

// BadBits 回傳底層產生器宣告的低品質位元數。
func (e *Engine) BadBits() uint { return e.src.BadBits() }

// Next 直接回傳底層產生器的下一個 64-bit 字。
func (e *Engine) Next() uint64 { return e.src.Next() }

// ---------------------------------------------------------------------------
// 播種與狀態存取
// ---------------------------------------------------------------------------

// Seed 從 crypto/rand 取 StateSize 個字，組成 minimal state-string 後
// 走與外部種子完全相同的解碼路徑。這樣自動播種和檔案播種的行為
// 可以互相驗證。
func (e *Engine) Seed() error {
	n := e.src.StateSize()
	buf := make([]byte, 8*n)
	if _, err := crand.Read(buf); err != nil {
		return errs.Wrap(err, "read OS entropy")
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(strconv.FormatUint(binary.LittleEndian.Uint64(buf[8*i:]), 10))
		sb.WriteByte(' ')
	}
	sb.WriteString(strconv.Itoa(n))
	return e.SeedFromString(sb.String())
}

// SeedFromString 以 state-string 重建完整狀態。格式錯誤一律回
// SeedFormat 類別的錯誤，且 Engine 狀態不變。
func (e *Engine) SeedFromString(s string) error {
	ps, err := parseStateString(s, e.src.StateSize())
	if err != nil {
		return err
	}
	if err := e.src.Restore(ps.words, ps.pos); err != nil {
		return err
	}
	if ps.hasCache {
		e.bitCache = ps.bitCache
		e.cacheMask = ps.cacheMask
	} else {
		e.resetBitCache()
	}
	return nil
}

// SeedFromFile 讀取檔案第一行作為 state-string。
func (e *Engine) SeedFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.WrapKind(err, errs.FileAccess, "open seed file "+path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return errs.WrapKind(err, errs.FileAccess, "read seed file "+path)
		}
		return errs.SeedFormatf("seed file %s is empty", path)
	}
	return e.SeedFromString(sc.Text())
}

// GetState 匯出可完整重建 Engine 的 state-string。
// bit cache 為空時省略 cache 欄位，輸出與手寫的 minimal 形式一致，
// 所以「解碼再編碼」對外部種子是恆等的。
func (e *Engine) GetState() string {
	words, pos := e.src.State()
	if e.cacheMask == e.replenish {
		return formatMinimalState(words, pos)
	}
	return formatEngineState(words, pos, e.bitCache, e.cacheMask)
}

// WriteState 把 GetState 的結果寫進檔案（單行）。
func (e *Engine) WriteState(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapKind(err, errs.FileAccess, "create state file "+path)
	}
	if _, err := f.WriteString(e.GetState() + "\n"); err != nil {
		f.Close()
		return errs.WrapKind(err, errs.FileAccess, "write state file "+path)
	}
	if err := f.Close(); err != nil {
		return errs.WrapKind(err, errs.FileAccess, "close state file "+path)
	}
	return nil
}

// Jump 讓底層產生器前跳 2^512 次呼叫。bit cache 同步清空，
// 避免跳躍前殘留的決策位漏到新序列。
func (e *Engine) Jump() {
	e.src.Jump()
	e.resetBitCache()
}

// JumpN 連續跳 n 次。
func (e *Engine) JumpN(n int) {
	for i := 0; i < n; i++ {
		e.Jump()
	}
}

// JumpVector 產出 n 條彼此相距一次 Jump 的 state-string，
// 第一條是目前狀態。回傳後 Engine 停在第一條之後第 n 跳的位置，
// 方便同一顆 Engine 繼續切下一批。
func (e *Engine) JumpVector(n int) []string {
	states := make([]string, n)
	for i := 0; i < n; i++ {
		states[i] = e.GetState()
		e.Jump()
	}
	return states
}

// ---------------------------------------------------------------------------
// 均勻變量
// ---------------------------------------------------------------------------

// Uneven 回傳 (0, 1] 上的 quasiuniform 變量。
//
// 一般路徑：最低位設 1（sticky bit，讓樣本空間對 0.5 對稱且排除 0），
// 乘上 2^-64。當原始字小於 2^54 時熵不足以填滿尾數，改走補熵路徑。
func (e *Engine) Uneven() float64 {
	r := e.src.Next()
	if r < e.minEntropy {
		return e.topUpEntropy(r)
	}
	return scaleUneven * float64(r|1)
}

// HalfUneven 回傳 (0, 0.5] 上的 quasiuniform 變量，
// 即 Uneven 的一半。flip-flop 的標準輸入。
func (e *Engine) HalfUneven() float64 {
	return 0.5 * e.Uneven()
}

// topUpEntropy 處理 r < 2^54 的罕見情形（機率約 2^-10）：
// 左移丟掉前導零、視需要重抽整字，同時用 downScale 累計
// 每一步的 2 的冪次縮放，最後補進新鮮的高位讓尾數填滿。
func (e *Engine) topUpEntropy(r uint64) float64 {
	downScale := 1.0
	var shiftLeft uint

	if r == 0 {
		// 整字為零。每抽到一個零字就多縮 2^-64。
		for {
			downScale *= scaleUneven
			r = e.src.Next()
			if r != 0 {
				break
			}
		}
	} else {
		r <<= 1
		shiftLeft = 1
	}
	for r < e.minEntropy {
		r <<= 1
		shiftLeft++
	}
	if shiftLeft > 0 {
		downScale *= math.Ldexp(1, -int(shiftLeft))
		r |= e.src.Next() >> (64 - shiftLeft)
	}
	return scaleUneven * float64(r|1) * downScale
}

// Even 回傳傳統的 53-bit 等距 uniform，落在 [0, 1)。
func (e *Engine) Even() float64 {
	return scaleEven * float64(e.src.Next()>>(64-mantissaBits))
}

// Bool 回傳一個公平決策位。
//
// cache 每次耗掉最高的未用位；剩下 badBits 個低位時整字作廢重取，
// 所以一個 64-bit 字供應 64-badBits 個決策。
func (e *Engine) Bool() bool {
	if e.cacheMask == e.replenish {
		e.bitCache = e.src.Next()
		e.cacheMask = 1 << 63
	}
	decision := e.cacheMask&e.bitCache != 0
	e.cacheMask >>= 1
	return decision
}

// ApplySign 以一個 Bool 決策位翻轉 victim 的正負號。
// 用 Copysign 而不是乘法，負零與非正規數都不會出錯。
func (e *Engine) ApplySign(victim float64) float64 {
	sign := 1.0
	if e.Bool() {
		sign = -1.0
	}
	return math.Copysign(victim, sign)
}
