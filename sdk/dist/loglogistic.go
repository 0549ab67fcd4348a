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

// LogLogistic 是 scale α、shape β 的 log-logistic 分布。
// logistic 變量的指數映射；重尾，也是 gamma 拒絕抽樣的提案分布。
type LogLogistic struct {
	alpha     float64
	beta      float64
	betaRecip float64
}

func NewLogLogistic(alpha, beta float64) (*LogLogistic, error) {
	if !(alpha > 0) {
		return nil, errs.Domainf("log-logistic: scale must be positive, got %v", alpha)
	}
	if !(beta > 0) {
		return nil, errs.Domainf("log-logistic: shape must be positive, got %v", beta)
	}
	return &LogLogistic{alpha: alpha, beta: beta, betaRecip: 1 / beta}, nil
}

func (d *LogLogistic) Draw(eng *core.Engine) float64 { return FlipFlop(eng, d) }

func (d *LogLogistic) Min() float64 { return 0 }
func (d *LogLogistic) Max() float64 { return math.Inf(1) }

func (d *LogLogistic) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x / d.alpha
	zb := math.Pow(z, d.beta)
	den := 1 + zb
	return d.beta / d.alpha * zb / z / (den * den)
}

func (d *LogLogistic) Mean() float64 {
	if d.beta <= 1 {
		return math.Inf(1)
	}
	t := math.Pi * d.betaRecip
	return d.alpha * t / math.Sin(t)
}

func (d *LogLogistic) Variance() float64 {
	if d.beta <= 2 {
		return math.Inf(1)
	}
	t := math.Pi * d.betaRecip
	m := t / math.Sin(t)
	return d.alpha * d.alpha * (2*t/math.Sin(2*t) - m*m)
}

func (d *LogLogistic) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 / (1 + math.Pow(x/d.alpha, -d.beta))
}

func (d *LogLogistic) CompCDF(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return 1 / (1 + math.Pow(x/d.alpha, d.beta))
}

func (d *LogLogistic) QSmall(u float64) float64 {
	return d.alpha * math.Exp(d.betaRecip*(math.Log(u)-math.Log1p(-u)))
}

func (d *LogLogistic) QLarge(v float64) float64 {
	return d.alpha * math.Exp(d.betaRecip*(math.Log1p(-v)-math.Log(v)))
}
