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

package dist

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
)

// Discrete 是任意非負整數權重的離散分布，抽樣走 Vose alias method。
//
// 建表 O(N)、抽樣 O(1)（固定兩次有界整數抽取）。全程整數運算：
// 權重先乘上元素數 n 做 scaling，機率比較不經過 float64，
// 沒有 0.999... != 1.0 的累積誤差問題。
//
// 結構欄位：
//   - prob: 每個槽位調整後的整數機率（scaled）。
//   - aliases: 機率不足的槽位由哪個元素補滿。
//   - total: 權重總和，scaling 基準兼抽樣門檻。
type Discrete struct {
	prob    []uint64
	aliases []int
	size    int
	total   uint64
}

// NewDiscrete 依權重建表。權重可為零；出現負權重、全零、或
// total*n 會溢位時回 Domain 錯誤。
func NewDiscrete(weights []int64) (*Discrete, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.Domainf("discrete: no weights given")
	}

	var total uint64
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Domainf("discrete: negative weight %d at index %d", w, i)
		}
		if total > math.MaxUint64-uint64(w) {
			return nil, errs.Domainf("discrete: total weight overflows uint64")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.Domainf("discrete: all weights are zero")
	}
	if hi, _ := bits.Mul64(total, uint64(n)); hi != 0 {
		return nil, errs.Domainf("discrete: weights too large, scaling overflows")
	}
	if total > maxSpan || uint64(n) > maxSpan {
		return nil, errs.Rangef("discrete: weight total exceeds entropy capacity 2^%d", core.UsableBits)
	}

	prob := make([]uint64, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	// 整數 scaling：每個權重乘 n，之後都拿 total 當分割線。
	for i, w := range weights {
		prob[i] = uint64(w) * uint64(n)
		if prob[i] < total {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// l 把 s 缺的機率補滿，維持 sum(prob) = total*n 不變。
		prob[l] = prob[l] + prob[s] - total

		if prob[l] < total {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &Discrete{prob: prob, aliases: aliases, size: n, total: total}, nil
}

// Pick 抽出一個索引：先等機率選槽位，再以整數比較決定本尊或別名。
func (d *Discrete) Pick(eng *core.Engine) int {
	idx := int(drawBelow(eng, uint64(d.size)))
	if drawBelow(eng, d.total) < d.prob[idx] {
		return idx
	}
	return d.aliases[idx]
}

// Size 回傳元素數量。
func (d *Discrete) Size() int { return d.size }

// Total 回傳權重總和。
func (d *Discrete) Total() uint64 { return d.total }
