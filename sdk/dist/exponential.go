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

// Exponential 是 rate λ 的指數分布（mean = 1/λ）。
//
// 分位分支：
//
//	QSmall(u) = -log1p(-u)/λ     小樣本側，log1p 避開 log(1-u) 的消去
//	QLarge(v) = -log(v)/λ        深右尾，v = 1-u 直接進 log
type Exponential struct {
	lambda float64
}

func NewExponential(lambda float64) (*Exponential, error) {
	if !(lambda > 0) {
		return nil, errs.Domainf("exponential: rate must be positive, got %v", lambda)
	}
	return &Exponential{lambda: lambda}, nil
}

func (d *Exponential) Draw(eng *core.Engine) float64 { return FlipFlop(eng, d) }

func (d *Exponential) Min() float64 { return 0 }
func (d *Exponential) Max() float64 { return math.Inf(1) }

func (d *Exponential) PDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return d.lambda * math.Exp(-d.lambda*x)
}

func (d *Exponential) Mean() float64     { return 1 / d.lambda }
func (d *Exponential) Variance() float64 { return 1 / (d.lambda * d.lambda) }

func (d *Exponential) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return -math.Expm1(-d.lambda * x)
}

func (d *Exponential) CompCDF(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Exp(-d.lambda * x)
}

func (d *Exponential) QSmall(u float64) float64 { return -math.Log1p(-u) / d.lambda }
func (d *Exponential) QLarge(v float64) float64 { return -math.Log(v) / d.lambda }
