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

const invSqrtTwoPi = 0.3989422804014327 // 1/√(2π)

// polarPair 以 Marsaglia polar 法產出一對獨立的標準常態樣本。
//
// x, y 直接取自 Uneven（不做 1-2U：那會毀掉 U 的精度），落在單位圓
// 外就重抽。u == x²+y² 恰等於 1 的測度零邊界用第二枚均勻變量把
// 「捨入到 1」的區域砍掉 2/3：我們要保留 1 左側半個 ulp 的質量，
// 不要右側一整個 ulp 的。符號事後由 bit cache 補上，縮放因子走
// flip-flop：正面用 -2·log(u/2)，反面用 log1p 改寫的等價式，
// u 靠近 1 時兩條尾巴各自精準。
func polarPair(eng *core.Engine) (float64, float64) {
	var x, y, u float64
	for {
		x = eng.Uneven()
		y = eng.Uneven()
		u = x*x + y*y
		if u == 1 && eng.Uneven()*3 < 2 {
			continue
		}
		if u <= 1 {
			break
		}
	}

	x = eng.ApplySign(x)
	y = eng.ApplySign(y)

	var scale float64
	if eng.Bool() {
		scale = math.Sqrt(-2 * math.Log(0.5*u) / u)
	} else {
		scale = math.Sqrt(2 * math.Log1p(u/(2-u)) / u)
	}
	return x * scale, y * scale
}

// StandardNormal 是 μ=0、σ=1 的常態分布。
//
// polar 法一次產兩個樣本，單抽時第二個存進 pairCache 留給下一次。
// 複製 StandardNormal 會複製 cache 而重複輸出同一個樣本，
// 複製後請先 ResetCache。
type StandardNormal struct {
	cache pairCache
}

func NewStandardNormal() *StandardNormal { return &StandardNormal{} }

func (d *StandardNormal) Draw(eng *core.Engine) float64 {
	return d.cache.drawCached(eng, polarPair)
}

func (d *StandardNormal) DrawPair(eng *core.Engine) (float64, float64) {
	return polarPair(eng)
}

// ResetCache 清掉暫存的半對樣本。
func (d *StandardNormal) ResetCache() { d.cache.reset() }

func (d *StandardNormal) Min() float64 { return math.Inf(-1) }
func (d *StandardNormal) Max() float64 { return math.Inf(1) }

func (d *StandardNormal) PDF(x float64) float64 {
	return invSqrtTwoPi * math.Exp(-0.5*x*x)
}

func (d *StandardNormal) Mean() float64     { return 0 }
func (d *StandardNormal) Variance() float64 { return 1 }

func (d *StandardNormal) CDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func (d *StandardNormal) CompCDF(x float64) float64 {
	return 0.5 * math.Erfc(x/math.Sqrt2)
}

// Normal 是 N(μ, σ²)。標準常態的仿射變換，cache 自己一份
//（存的是已變換的值）。
type Normal struct {
	mu, sigma float64
	cache     pairCache
}

func NewNormal(mu, sigma float64) (*Normal, error) {
	if !(sigma > 0) {
		return nil, errs.Domainf("normal: sigma must be positive, got %v", sigma)
	}
	return &Normal{mu: mu, sigma: sigma}, nil
}

func (d *Normal) genTwo(eng *core.Engine) (float64, float64) {
	x, y := polarPair(eng)
	return d.mu + d.sigma*x, d.mu + d.sigma*y
}

func (d *Normal) Draw(eng *core.Engine) float64 {
	return d.cache.drawCached(eng, d.genTwo)
}

func (d *Normal) DrawPair(eng *core.Engine) (float64, float64) {
	return d.genTwo(eng)
}

func (d *Normal) ResetCache() { d.cache.reset() }

func (d *Normal) Min() float64 { return math.Inf(-1) }
func (d *Normal) Max() float64 { return math.Inf(1) }

func (d *Normal) PDF(x float64) float64 {
	z := (x - d.mu) / d.sigma
	return invSqrtTwoPi / d.sigma * math.Exp(-0.5*z*z)
}

func (d *Normal) Mean() float64     { return d.mu }
func (d *Normal) Variance() float64 { return d.sigma * d.sigma }

func (d *Normal) CDF(x float64) float64 {
	return 0.5 * math.Erfc(-(x-d.mu)/(d.sigma*math.Sqrt2))
}

func (d *Normal) CompCDF(x float64) float64 {
	return 0.5 * math.Erfc((x - d.mu) / (d.sigma * math.Sqrt2))
}

// LogNormal：log X ~ N(μ, σ²)。
//
// exp(μ) 在建構時先提出來（muScale），抽樣算 muScale·exp(σx)
// 而不是 exp(μ+σx)，μ 與 σx 量級差很多時後者會丟位數。
type LogNormal struct {
	mu, sigma float64
	muScale   float64
	cache     pairCache
}

func NewLogNormal(mu, sigma float64) (*LogNormal, error) {
	if !(sigma > 0) {
		return nil, errs.Domainf("log-normal: sigma must be positive, got %v", sigma)
	}
	return &LogNormal{mu: mu, sigma: sigma, muScale: math.Exp(mu)}, nil
}

func (d *LogNormal) genTwo(eng *core.Engine) (float64, float64) {
	x, y := polarPair(eng)
	return d.muScale * math.Exp(d.sigma*x), d.muScale * math.Exp(d.sigma*y)
}

func (d *LogNormal) Draw(eng *core.Engine) float64 {
	return d.cache.drawCached(eng, d.genTwo)
}

func (d *LogNormal) DrawPair(eng *core.Engine) (float64, float64) {
	return d.genTwo(eng)
}

func (d *LogNormal) ResetCache() { d.cache.reset() }

func (d *LogNormal) Min() float64 { return 0 }
func (d *LogNormal) Max() float64 { return math.Inf(1) }

func (d *LogNormal) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := (math.Log(x) - d.mu) / d.sigma
	return invSqrtTwoPi / (x * d.sigma) * math.Exp(-0.5*z*z)
}

func (d *LogNormal) Mean() float64 {
	return math.Exp(d.mu + 0.5*d.sigma*d.sigma)
}

func (d *LogNormal) Variance() float64 {
	s2 := d.sigma * d.sigma
	return math.Expm1(s2) * math.Exp(2*d.mu+s2)
}

func (d *LogNormal) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 0.5 * math.Erfc(-(math.Log(x)-d.mu)/(d.sigma*math.Sqrt2))
}

func (d *LogNormal) CompCDF(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return 0.5 * math.Erfc((math.Log(x) - d.mu) / (d.sigma * math.Sqrt2))
}
