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
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
)

// maxSpan 是一個輸出字丟掉低品質位之後能無偏表示的最大區間寬度。
const maxSpan = uint64(1) << core.UsableBits

// UniformInt 是 [min, max) 上的離散均勻分布。
//
// 映射用門檻拒絕法：把 62 個可用位切成 span 的整數倍區與餘數區，
// 落進餘數區就重抽，保證每個值的機率嚴格相等（modulo 偏差為零）。
// span 超過 2^62 時熵不夠，建構即失敗。
type UniformInt struct {
	min, max  int64
	span      uint64
	threshold uint64
}

func NewUniformInt(min, max int64) (*UniformInt, error) {
	if max <= min {
		return nil, errs.Domainf("uniform-int: need max > min, got [%d, %d)", min, max)
	}
	// 無號減法在 min < 0 < max 跨零時也給出正確的區間寬度。
	span := uint64(max) - uint64(min)
	if span > maxSpan {
		return nil, errs.Rangef("uniform-int: span %d exceeds entropy capacity 2^%d", span, core.UsableBits)
	}
	return &UniformInt{
		min:       min,
		max:       max,
		span:      span,
		threshold: maxSpan - maxSpan%span,
	}, nil
}

// DrawInt 回傳 [min, max) 中的一個等機率整數。
func (d *UniformInt) DrawInt(eng *core.Engine) int64 {
	for {
		r := eng.Next() >> eng.BadBits()
		if r < d.threshold {
			return d.min + int64(r%d.span)
		}
	}
}

// drawBelow 回傳 [0, n) 的等機率整數，n 必須在 (0, 2^62] 內。
// Discrete 等內部抽樣共用這條路徑。
func drawBelow(eng *core.Engine, n uint64) uint64 {
	threshold := maxSpan - maxSpan%n
	for {
		r := eng.Next() >> eng.BadBits()
		if r < threshold {
			return r % n
		}
	}
}

func (d *UniformInt) Draw(eng *core.Engine) float64 {
	return float64(d.DrawInt(eng))
}

func (d *UniformInt) Min() float64 { return float64(d.min) }
func (d *UniformInt) Max() float64 { return float64(d.max) }

// PDF 以離散機率質量解讀：支撐集內每點 1/span。
func (d *UniformInt) PDF(x float64) float64 {
	if x < float64(d.min) || x >= float64(d.max) || x != float64(int64(x)) {
		return 0
	}
	return 1 / float64(d.span)
}

func (d *UniformInt) Mean() float64 {
	return 0.5 * (float64(d.min) + float64(d.max) - 1)
}

func (d *UniformInt) Variance() float64 {
	n := float64(d.span)
	return (n*n - 1) / 12
}
