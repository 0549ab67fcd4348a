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

// Package core 實作 pqlab 的亂數來源與精度引擎。
//
// 分成兩層：
//   - Source：裸的 64-bit 產生器（預設 xorshift1024*），只負責吐整數、
//     跳躍與狀態快照。
//   - Engine：把整數轉成受控精度的均勻變量（uneven / even / bool），
//     並負責 seed 與 state-string 的存取。
package core

import "github.com/zintix-labs/pqlab/errs"

// Source 定義 Engine 所需的產生器能力合約。
//
// 為什麼是合約而不是 runtime 選項？
//
// pqlab 的存在意義是「高精度取樣」，一顆統計品質不佳的 PRNG 會讓
// 所有精度工程白費，所以我們刻意不提供 runtime 挑選 PRNG 的自由。
// 要換產生器必須自行實作 Source 並在建構時注入——換言之這是一個
// 編譯期的能力檢查，預設且唯一內建的實作是 XorShift1024Star。
//
// 合約（很重要）：
//   - Next 必須是內部狀態的決定性函數：相同狀態產生相同序列。
//   - 字寬固定 64 bit 且所有 bit 都要填滿（Engine 的精度常數假設如此）。
//   - Jump 必須與 Next 可交換：k 次 Next 後 Jump，等於 Jump 後 k 次
//     Next（這是平行流不重疊保證的基礎）。
//   - State/Restore 必須完整往返：Restore(State()) 之後的輸出序列
//     與原產生器逐 bit 相同。
//   - 全零狀態是前置條件違反，不是本層要檢查的錯誤；偵測壞種子的
//     責任在 seed 路徑。
type Source interface {
	// Next 回傳下一個 64-bit 無號整數。
	Next() uint64
	// Jump 將產生器邏輯位置前跳一大段（xorshift1024* 為 2^512 次呼叫）。
	Jump()
	// StateSize 回傳狀態字數（xorshift1024* 為 16）。
	StateSize() int
	// BadBits 回傳低位不建議使用的 bit 數（產生器特定常數）。
	BadBits() uint
	// State 回傳目前的狀態字與旋轉索引。
	State() (words []uint64, pos int)
	// Restore 以狀態字與旋轉索引重設內部狀態。
	Restore(words []uint64, pos int) error
}

// SourceFactory 以工廠形式建立新的 Source，供 Engine 建構時注入。
type SourceFactory interface {
	// New 回傳一顆「尚未播種」的產生器。
	New() Source
}

// DefaultSource 是預設的 SourceFactory，生產 XorShift1024Star。
type DefaultSource struct{}

// New 滿足合約。
func (d *DefaultSource) New() Source {
	return NewXorShift1024Star()
}

func Default() *DefaultSource {
	return &DefaultSource{}
}

// checkRestore 是 Source 實作共用的防衛：驗證字數與索引範圍。
func checkRestore(words []uint64, pos int, stateSize int) error {
	if len(words) != stateSize {
		return errs.SeedFormatf("restore needs %d words, got %d", stateSize, len(words))
	}
	if pos < 0 || pos >= stateSize {
		return errs.SeedFormatf("rotation index %d out of [0,%d)", pos, stateSize)
	}
	return nil
}
