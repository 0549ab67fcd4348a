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

// Pareto 是 scale x_m、tail index α 的 Pareto 分布。
//
// 唯一不用 flip-flop 的連續分布：只有 u → 1 那一側（深右尾）
// 條件不好，而 x_m · U^(-1/α) 讓 Uneven 靠近 0 的高解析度
// 直接供應右尾，左端買一送一。
type Pareto struct {
	xm            float64
	alpha         float64
	negRecipAlpha float64
}

func NewPareto(xm, alpha float64) (*Pareto, error) {
	if !(xm > 0) {
		return nil, errs.Domainf("pareto: scale must be positive, got %v", xm)
	}
	if !(alpha > 0) {
		return nil, errs.Domainf("pareto: tail index must be positive, got %v", alpha)
	}
	return &Pareto{xm: xm, alpha: alpha, negRecipAlpha: -1 / alpha}, nil
}

func (d *Pareto) Draw(eng *core.Engine) float64 {
	return d.xm * math.Pow(eng.Uneven(), d.negRecipAlpha)
}

func (d *Pareto) Min() float64 { return d.xm }
func (d *Pareto) Max() float64 { return math.Inf(1) }

func (d *Pareto) PDF(x float64) float64 {
	if x < d.xm {
		return 0
	}
	return d.alpha / x * math.Pow(d.xm/x, d.alpha)
}

func (d *Pareto) Mean() float64 {
	if d.alpha <= 1 {
		return math.Inf(1)
	}
	return d.alpha * d.xm / (d.alpha - 1)
}

func (d *Pareto) Variance() float64 {
	if d.alpha <= 2 {
		return math.Inf(1)
	}
	am1 := d.alpha - 1
	return d.xm * d.xm * d.alpha / (am1 * am1 * (d.alpha - 2))
}

func (d *Pareto) CDF(x float64) float64 {
	if x <= d.xm {
		return 0
	}
	return -math.Expm1(d.alpha * math.Log(d.xm/x))
}

func (d *Pareto) CompCDF(x float64) float64 {
	if x <= d.xm {
		return 1
	}
	return math.Pow(d.xm/x, d.alpha)
}

func (d *Pareto) QSmall(u float64) float64 {
	return d.xm * math.Exp(d.negRecipAlpha*math.Log1p(-u))
}

func (d *Pareto) QLarge(v float64) float64 {
	return d.xm * math.Pow(v, d.negRecipAlpha)
}
