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

	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
)

// Logistic 是位置 μ、尺度 s 的 logistic 分布。
//
// logit 反函數拆成 log(u) - log1p(-u)，兩項在 u ∈ (0, 0.5] 都
// 條件良好；QLarge 靠對稱性直接用負號換邊。
type Logistic struct {
	mu float64
	s  float64
}

func NewLogistic(mu, s float64) (*Logistic, error) {
	if !(s > 0) {
		return nil, errs.Domainf("logistic: scale must be positive, got %v", s)
	}
	return &Logistic{mu: mu, s: s}, nil
}

func (d *Logistic) Draw(eng *core.Engine) float64 { return FlipFlop(eng, d) }

func (d *Logistic) Min() float64 { return math.Inf(-1) }
func (d *Logistic) Max() float64 { return math.Inf(1) }

func (d *Logistic) PDF(x float64) float64 {
	// sech² 形式左右尾對稱，單邊 exp 不會先溢位。
	c := math.Cosh(0.5 * (x - d.mu) / d.s)
	return 1 / (4 * d.s * c * c)
}

func (d *Logistic) Mean() float64     { return d.mu }
func (d *Logistic) Variance() float64 { return d.s * d.s * math.Pi * math.Pi / 3 }

func (d *Logistic) CDF(x float64) float64 {
	return 1 / (1 + math.Exp(-(x-d.mu)/d.s))
}

func (d *Logistic) CompCDF(x float64) float64 {
	return 1 / (1 + math.Exp((x-d.mu)/d.s))
}

func (d *Logistic) QSmall(u float64) float64 {
	return d.mu + d.s*(math.Log(u)-math.Log1p(-u))
}

func (d *Logistic) QLarge(v float64) float64 {
	return d.mu - d.s*(math.Log(v)-math.Log1p(-v))
}
