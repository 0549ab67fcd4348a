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

// Package dist 提供以 quantile flip-flop 為核心的精準分位分布抽樣。
//
// 能力以介面分層，而不是繼承鏈：
//
//	Sampler  --> 可抽樣（Draw / Min / Max）
//	Dist     --> 加上解析密度與動差（PDF / Mean / Variance）
//	CDFDist  --> 加上雙尾各自精準的 CDF / CompCDF
//	Quantile2--> 加上分位函數的兩個數值分支（QSmall / QLarge）
//
// 每個具體分布只實作它真正具備的層級；呼叫端用型別斷言檢查能力。
// 所有建構式在任何狀態建立之前驗證參數，非法參數回傳 Domain 類別
// 的錯誤，抽樣期不再檢查。
//
// 分布物件不做內部同步：含 cache 的分布（normal 家族）與 Engine 一樣，
// 一條 goroutine 一份，平行時用 Engine.Jump 切流。
package dist

import (
	"github.com/zintix-labs/pqlab/sdk/core"
)

// Sampler 是最底層的抽樣能力。
type Sampler interface {
	// Draw 從分布抽出一個樣本。
	Draw(eng *core.Engine) float64
	// Min 回傳支撐集下界（可能是開界，見各分布說明）。
	Min() float64
	// Max 回傳支撐集上界。
	Max() float64
}

// PairDrawer 由一次產出兩個樣本的分布實作（Marsaglia polar 天生成對）。
// Sample 偵測到此能力時改走成對路徑，省下一半的 cache 往返。
type PairDrawer interface {
	DrawPair(eng *core.Engine) (float64, float64)
}

// Dist 在 Sampler 之上加上解析密度與動差。
type Dist interface {
	Sampler
	// PDF 回傳 x 處的機率密度；x 在支撐集外時恰為 0。
	PDF(x float64) float64
	Mean() float64
	Variance() float64
}

// CDFDist 在 Dist 之上加上累積分布函數。
//
// CDF 與 CompCDF 各自用在自己那一側精準的閉式：需要 1-CDF(x) 時
// 一律呼叫 CompCDF，不要自己做減法（x 深入右尾時那個減法會
// 吃掉所有有效位）。
type CDFDist interface {
	Dist
	CDF(x float64) float64
	CompCDF(x float64) float64
}

// Quantile2 在 CDFDist 之上加上分位函數的兩個數值分支。
//
// QSmall(u) 在 u → 0 時精準；QLarge(v) 是以 v = 1-u 為引數改寫的
// 同一個分位函數，在 u → 1（v → 0）時精準。兩者的引數都只會落在
// (0, 0.5]，由 FlipFlop 保證。
type Quantile2 interface {
	CDFDist
	QSmall(u float64) float64
	QLarge(v float64) float64
}

// FlipFlop 是整個套件的核心抽樣原語。
//
// 抽一個 (0, 0.5] 的 quasiuniform 變量 hu 與一枚公平硬幣：正面把 hu
// 餵給 QLarge（落在分布右半），反面餵給 QSmall（左半）。兩個分支
// 只會看到靠近 0 的引數，而 HalfUneven 恰好在 0 附近解析度最高，
// 所以分布的兩條尾巴都拿到完整的浮點精度。
//
// 絕對不要用 1-u 換邊：那個減法正是 flip-flop 要消滅的精度殺手。
func FlipFlop(eng *core.Engine, q Quantile2) float64 {
	hu := eng.HalfUneven()
	if eng.Bool() {
		return q.QLarge(hu)
	}
	return q.QSmall(hu)
}

// AntitheticPair 以同一個 u 回傳 (QSmall(u), QLarge(u))，
// 即一對負相關的對偶樣本，變異數縮減用。
func AntitheticPair(eng *core.Engine, q Quantile2) (small, large float64) {
	hu := eng.HalfUneven()
	return q.QSmall(hu), q.QLarge(hu)
}

// Sample 連抽 n 個樣本。實作 PairDrawer 的分布改走成對路徑。
func Sample(eng *core.Engine, s Sampler, n int) []float64 {
	out := make([]float64, n)
	if pd, ok := s.(PairDrawer); ok {
		i := 0
		for ; i+1 < n; i += 2 {
			out[i], out[i+1] = pd.DrawPair(eng)
		}
		if i < n {
			out[i] = s.Draw(eng)
		}
		return out
	}
	for i := range out {
		out[i] = s.Draw(eng)
	}
	return out
}

// pairCache 是 normal 家族的一格樣本快取：polar 法一次產兩個，
// 單抽時存一個下次用。複製分布物件會連 cache 一起複製而造成
// 重複輸出，複製後請呼叫 ResetCache（或一開始就用指標共享）。
type pairCache struct {
	val    float64
	cached bool
}

// drawCached 先吃掉快取的樣本，空了才呼叫 gen 產一對。
func (c *pairCache) drawCached(eng *core.Engine, gen func(*core.Engine) (float64, float64)) float64 {
	if c.cached {
		c.cached = false
		return c.val
	}
	x, y := gen(eng)
	c.val = x
	c.cached = true
	return y
}

func (c *pairCache) reset() {
	c.val = 0
	c.cached = false
}
