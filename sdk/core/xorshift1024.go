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

const (
	// StateSize xorshift1024* 的狀態字數。
	StateSize = 16

	// xorshiftBadBits 最低兩個 bit 是 degree-1024 的 LFSR，統計品質
	// 不佳（S. Vigna 的建議），Engine 的 bool 抽取與整數映射都會跳過。
	xorshiftBadBits = 2

	// starMultiplier 輸出端的乘法擾動常數（奇數）。這一步把底層線性
	// 移位的輸出打亂，是 "star" 系列與裸 xorshift 的差別。
	starMultiplier = 0x9e3779b97f4a7c13

	// UsableBits 丟掉低品質位之後，一個輸出字剩下的可用熵位數。
	// 整數映射的最大可表示區間由它決定。
	UsableBits = 64 - xorshiftBadBits
)

// jumpPoly 跳躍多項式常數表：等價於把產生器的特徵遞迴在 2^512 步之後
// 求值。數值來自已發表的 xorshift1024* 參考實作，不可改動。
var jumpPoly = [StateSize]uint64{
	0x84242f96eca9c41d, 0xa3c65b8776f96855, 0x5b34a39f070b5837, 0x4489affce4f31a1e,
	0x2ffeeb0a48316f40, 0xdc2d9891fe68c022, 0x3659132bb12fea70, 0xaac17d8efa43cab8,
	0xc4cb815590989b13, 0x5ee975283d71c93b, 0x691548c86c1bd540, 0x7910c41d10a1e6a5,
	0x0b5fc64563b3e2a8, 0x047f7684e9fc949d, 0xb99181f2d8f685ca, 0x284600e3f30e38c3,
}

// XorShift1024Star 是 xorshift1024*（週期 2^1024 − 1）的實作。
//
// 狀態是 16 個 64-bit 字加一個旋轉索引 p。零值是「未播種」狀態：
// 合法但未定義，使用前必須經過 Engine 的 seed 路徑填滿
// （全零狀態是不動點，永遠只會輸出 0）。
//
// 以值複製整個結構即可得到獨立的產生器：兩者在各自被呼叫或跳躍前，
// 未來序列完全相同。
type XorShift1024Star struct {
	state [StateSize]uint64
	p     int
}

// NewXorShift1024Star 回傳未播種的產生器。別忘了播種。
func NewXorShift1024Star() *XorShift1024Star {
	return &XorShift1024Star{}
}

// Next 回傳下一個 64-bit 無號整數。
func (x *XorShift1024Star) Next() uint64 {
	s0 := x.state[x.p]
	x.p = (x.p + 1) & 15
	s1 := x.state[x.p]
	s1 ^= s1 << 31                          // a
	s1 = s1 ^ s0 ^ (s1 >> 11) ^ (s0 >> 30) // b, c
	x.state[x.p] = s1
	return s1 * starMultiplier
}

// Jump 將狀態前跳 2^512 次呼叫，而不實際執行它們。
//
// 做法是對 jumpPoly 的每個 bit（每字由低到高）條件式地把旋轉後的
// 狀態 XOR 進累加器，同時讓產生器真的前進一步；掃完後用累加器覆蓋
// 狀態。Jump 與 Next 可交換：(Next^k ; Jump) 與 (Jump ; Next^k)
// 終態相同，平行流切分依賴這個性質。
func (x *XorShift1024Star) Jump() {
	var t [StateSize]uint64
	for _, w := range jumpPoly {
		for b := 0; b < 64; b++ {
			if w&(uint64(1)<<b) != 0 {
				for j := 0; j < StateSize; j++ {
					t[j] ^= x.state[(j+x.p)&15]
				}
			}
			x.Next()
		}
	}
	for j := 0; j < StateSize; j++ {
		x.state[(j+x.p)&15] = t[j]
	}
}

// JumpN 連續跳躍 n 次。
func (x *XorShift1024Star) JumpN(n int) {
	for i := 0; i < n; i++ {
		x.Jump()
	}
}

// StateSize 滿足 Source 合約。
func (x *XorShift1024Star) StateSize() int { return StateSize }

// BadBits 滿足 Source 合約。
func (x *XorShift1024Star) BadBits() uint { return xorshiftBadBits }

// State 回傳狀態字的複本與旋轉索引。
func (x *XorShift1024Star) State() ([]uint64, int) {
	words := make([]uint64, StateSize)
	copy(words, x.state[:])
	return words, x.p
}

// Restore 以狀態字與旋轉索引重設內部狀態。
func (x *XorShift1024Star) Restore(words []uint64, pos int) error {
	if err := checkRestore(words, pos, StateSize); err != nil {
		return err
	}
	copy(x.state[:], words)
	x.p = pos
	return nil
}
