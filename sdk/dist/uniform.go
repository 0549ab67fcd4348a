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

// Uniform 是 (a, b] 上的連續均勻分布。
//
// Draw 直接做 Uneven 的仿射變換，不走 flip-flop（兩條尾巴條件
// 一樣好，沒有換邊的必要）。diff 在建構時算一次，u = 1 時
// a + diff 恰好回到 b。
type Uniform struct {
	a, b float64
	diff float64
}

func NewUniform(a, b float64) (*Uniform, error) {
	if !(b > a) {
		return nil, errs.Domainf("uniform: need b > a, got a=%v b=%v", a, b)
	}
	return &Uniform{a: a, b: b, diff: b - a}, nil
}

func (d *Uniform) Draw(eng *core.Engine) float64 {
	return d.a + d.diff*eng.Uneven()
}

func (d *Uniform) Min() float64 { return d.a }
func (d *Uniform) Max() float64 { return d.b }

func (d *Uniform) PDF(x float64) float64 {
	if x <= d.a || x > d.b {
		return 0
	}
	return 1 / d.diff
}

func (d *Uniform) Mean() float64     { return 0.5 * (d.a + d.b) }
func (d *Uniform) Variance() float64 { return d.diff * d.diff / 12 }

func (d *Uniform) CDF(x float64) float64 {
	switch {
	case x <= d.a:
		return 0
	case x >= d.b:
		return 1
	}
	return (x - d.a) / d.diff
}

func (d *Uniform) CompCDF(x float64) float64 {
	switch {
	case x <= d.a:
		return 1
	case x >= d.b:
		return 0
	}
	return (d.b - x) / d.diff
}

func (d *Uniform) QSmall(u float64) float64 { return d.a + d.diff*u }
func (d *Uniform) QLarge(v float64) float64 { return d.b - d.diff*v }
