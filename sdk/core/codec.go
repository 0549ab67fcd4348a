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
	"strconv"
	"strings"

	"github.com/zintix-labs/pqlab/errs"
)

// state-string 是唯一的持久化格式：單行、空白分隔、人眼可稽核的
// 十進位 64-bit 字。長時間科學運算的種子要能被人直接讀與比對，
// 所以刻意不用任何二進位 wire format。
//
//	w_0 w_1 ... w_15 16 [p] [bitCache cacheMask]
//
//   - 16 個狀態字之後接「宣告字數」16 作為自我檢查。
//   - p 為旋轉索引，省略時視為 0（外部手寫種子建議用這種 minimal 形式）。
//   - bitCache / cacheMask 是 Engine 層的額外狀態，只應由 GetState 產出，
//     不應由使用者手寫；缺席時 Engine 會在下次 Bool() 重新補水。

// parsedState 是解碼後的中間結構。
type parsedState struct {
	words     []uint64
	pos       int
	hasCache  bool
	bitCache  uint64
	cacheMask uint64
}

// parseStateString 依序讀取 state-string 的各欄位。
//
// 兩種合法格式（N = stateSize）：
//
//	w_1 ... w_N N              --> p 未給定，設為 0
//	w_1 ... w_N N p [bc mask]  --> p 給定，Engine 額外狀態可選
func parseStateString(s string, stateSize int) (*parsedState, error) {
	fields := strings.Fields(s)
	if len(fields) < stateSize {
		return nil, errs.SeedFormatf("state-string malformed: need %d words to fill state, got %d", stateSize, len(fields))
	}
	if len(fields) == stateSize {
		return nil, errs.SeedFormatf("state-string malformed: declared word count missing")
	}

	ps := &parsedState{words: make([]uint64, stateSize)}
	for i := 0; i < stateSize; i++ {
		w, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return nil, errs.WrapKind(err, errs.SeedFormat, "state-string malformed: word "+fields[i])
		}
		ps.words[i] = w
	}

	declared, err := strconv.ParseUint(fields[stateSize], 10, 64)
	if err != nil {
		return nil, errs.WrapKind(err, errs.SeedFormat, "state-string malformed: declared word count "+fields[stateSize])
	}
	if declared != uint64(stateSize) {
		return nil, errs.SeedFormatf("state-string malformed: declared word count %d, want %d", declared, stateSize)
	}

	rest := fields[stateSize+1:]
	if len(rest) == 0 {
		return ps, nil
	}

	// 旋轉索引 p ∈ [0, stateSize)。
	pos, err := strconv.ParseUint(rest[0], 10, 64)
	if err != nil {
		return nil, errs.WrapKind(err, errs.SeedFormat, "state-string malformed: rotation index "+rest[0])
	}
	if pos >= uint64(stateSize) {
		return nil, errs.SeedFormatf("state-string malformed: rotation index %d exceeds %d", pos, stateSize-1)
	}
	ps.pos = int(pos)
	rest = rest[1:]

	if len(rest) == 0 {
		return ps, nil
	}
	// bitCache 若存在，cacheMask 不可缺席。
	if len(rest) < 2 {
		return nil, errs.SeedFormatf("state-string malformed: bitCache stored but not cacheMask")
	}
	bc, err := strconv.ParseUint(rest[0], 10, 64)
	if err != nil {
		return nil, errs.WrapKind(err, errs.SeedFormat, "state-string malformed: bitCache "+rest[0])
	}
	mask, err := strconv.ParseUint(rest[1], 10, 64)
	if err != nil {
		return nil, errs.WrapKind(err, errs.SeedFormat, "state-string malformed: cacheMask "+rest[1])
	}
	ps.hasCache = true
	ps.bitCache = bc
	ps.cacheMask = mask
	return ps, nil
}

// formatMinimalState 組出不含 Engine 額外狀態的 state-string。
func formatMinimalState(words []uint64, pos int) string {
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(strconv.FormatUint(w, 10))
		sb.WriteByte(' ')
	}
	sb.WriteString(strconv.Itoa(len(words)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos))
	return sb.String()
}

// formatEngineState 在產生器狀態之後追加 bitCache 與 cacheMask。
func formatEngineState(words []uint64, pos int, bitCache, cacheMask uint64) string {
	return formatMinimalState(words, pos) +
		" " + strconv.FormatUint(bitCache, 10) +
		" " + strconv.FormatUint(cacheMask, 10)
}
