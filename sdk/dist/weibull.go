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

// Weibull 是 scale λ、shape k 的 Weibull 分布。
// 指數分布的冪次推廣，分位分支同樣靠 log1p 保住左尾。
type Weibull struct {
	lambda float64
	k      float64
	kRecip float64
}

func NewWeibull(lambda, k float64) (*Weibull, error) {
	if !(lambda > 0) {
		return nil, errs.Domainf("weibull: scale must be positive, got %v", lambda)
	}
	if !(k > 0) {
		return nil, errs.Domainf("weibull: shape must be positive, got %v", k)
	}
	return &Weibull{lambda: lambda, k: k, kRecip: 1 / k}, nil
}

func (d *Weibull) Draw(eng *core.Engine) float64 { return FlipFlop(eng, d) }

func (d *Weibull) Min() float64 { return 0 }
func (d *Weibull) Max() float64 { return math.Inf(1) }

func (d *Weibull) PDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x == 0 {
		// k < 1 時密度在 0 發散，k == 1 退化為指數。
		switch {
		case d.k < 1:
			return math.Inf(1)
		case d.k == 1:
			return 1 / d.lambda
		}
		return 0
	}
	z := x / d.lambda
	zk := math.Pow(z, d.k)
	return d.k / d.lambda * zk / z * math.Exp(-zk)
}

func (d *Weibull) Mean() float64 {
	return d.lambda * math.Gamma(1+d.kRecip)
}

func (d *Weibull) Variance() float64 {
	g1 := math.Gamma(1 + d.kRecip)
	return d.lambda * d.lambda * (math.Gamma(1+2*d.kRecip) - g1*g1)
}

func (d *Weibull) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return -math.Expm1(-math.Pow(x/d.lambda, d.k))
}

func (d *Weibull) CompCDF(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Exp(-math.Pow(x/d.lambda, d.k))
}

func (d *Weibull) QSmall(u float64) float64 {
	return d.lambda * math.Pow(-math.Log1p(-u), d.kRecip)
}

func (d *Weibull) QLarge(v float64) float64 {
	return d.lambda * math.Pow(-math.Log(v), d.kRecip)
}
