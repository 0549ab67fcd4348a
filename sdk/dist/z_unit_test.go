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
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
)

func testEngine(t *testing.T) *core.Engine {
	t.Helper()
	eng := core.NewEngineDeferred()
	if err := eng.SeedFromString("1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 16 0"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return eng
}

func relClose(a, b, tol float64) bool {
	if a == b {
		return true
	}
	den := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*den
}

func TestConstructorValidation(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"uniform b<=a", func() error { _, err := NewUniform(5, 2); return err }()},
		{"uniform a==b", func() error { _, err := NewUniform(3, 3); return err }()},
		{"exponential rate", func() error { _, err := NewExponential(0); return err }()},
		{"weibull scale", func() error { _, err := NewWeibull(-1, 2); return err }()},
		{"weibull shape", func() error { _, err := NewWeibull(1, 0); return err }()},
		{"pareto scale", func() error { _, err := NewPareto(0, 2); return err }()},
		{"logistic scale", func() error { _, err := NewLogistic(0, -1); return err }()},
		{"log-logistic shape", func() error { _, err := NewLogLogistic(1, 0); return err }()},
		{"normal sigma", func() error { _, err := NewNormal(0, 0); return err }()},
		{"log-normal sigma", func() error { _, err := NewLogNormal(0, -2); return err }()},
		{"gamma shape", func() error { _, err := NewGamma(1, 1); return err }()},
		{"gamma rate", func() error { _, err := NewGamma(2, 0); return err }()},
		{"uniform-int empty", func() error { _, err := NewUniformInt(4, 4); return err }()},
		{"discrete empty", func() error { _, err := NewDiscrete(nil); return err }()},
		{"discrete negative", func() error { _, err := NewDiscrete([]int64{1, -2}); return err }()},
		{"discrete all zero", func() error { _, err := NewDiscrete([]int64{0, 0}); return err }()},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !errs.IsKind(tc.err, errs.Domain) {
			t.Fatalf("%s: expected Domain kind, got %v", tc.name, tc.err)
		}
	}
}

func TestUniformIntRangeError(t *testing.T) {
	_, err := NewUniformInt(math.MinInt64, math.MaxInt64)
	if err == nil {
		t.Fatalf("expected error for full int64 span")
	}
	if !errs.IsKind(err, errs.Range) {
		t.Fatalf("expected Range kind, got %v", err)
	}
}

func TestBoundarySampling(t *testing.T) {
	eng := testEngine(t)

	u, _ := NewUniform(2, 5)
	for i := 0; i < 20000; i++ {
		x := u.Draw(eng)
		if x <= 2 || x > 5 {
			t.Fatalf("uniform[2,5] draw out of range: %v", x)
		}
	}

	samplers := []struct {
		name string
		s    Sampler
	}{
		{"exponential", mustExp(t, 2)},
		{"weibull", mustWeibull(t, 1.5, 0.8)},
		{"pareto", mustPareto(t, 1.5, 2.5)},
		{"log-logistic", mustLogLogistic(t, 1, 2)},
		{"gamma", mustGamma(t, 3.5, 2)},
		{"log-normal", mustLogNormal(t, 0.2, 0.7)},
	}
	for _, tc := range samplers {
		for i := 0; i < 20000; i++ {
			x := tc.s.Draw(eng)
			if x < tc.s.Min() || x > tc.s.Max() {
				t.Fatalf("%s draw out of [%v, %v]: %v", tc.name, tc.s.Min(), tc.s.Max(), x)
			}
			if tc.s.Min() == 0 && x == 0 {
				t.Fatalf("%s drew exactly 0, support is open at 0", tc.name)
			}
		}
	}
}

func mustExp(t *testing.T, lambda float64) *Exponential {
	t.Helper()
	d, err := NewExponential(lambda)
	if err != nil {
		t.Fatalf("exponential: %v", err)
	}
	return d
}

func mustWeibull(t *testing.T, lambda, k float64) *Weibull {
	t.Helper()
	d, err := NewWeibull(lambda, k)
	if err != nil {
		t.Fatalf("weibull: %v", err)
	}
	return d
}

func mustPareto(t *testing.T, xm, alpha float64) *Pareto {
	t.Helper()
	d, err := NewPareto(xm, alpha)
	if err != nil {
		t.Fatalf("pareto: %v", err)
	}
	return d
}

func mustLogLogistic(t *testing.T, alpha, beta float64) *LogLogistic {
	t.Helper()
	d, err := NewLogLogistic(alpha, beta)
	if err != nil {
		t.Fatalf("log-logistic: %v", err)
	}
	return d
}

func mustGamma(t *testing.T, k, rate float64) *Gamma {
	t.Helper()
	d, err := NewGamma(k, rate)
	if err != nil {
		t.Fatalf("gamma: %v", err)
	}
	return d
}

func mustLogNormal(t *testing.T, mu, sigma float64) *LogNormal {
	t.Helper()
	d, err := NewLogNormal(mu, sigma)
	if err != nil {
		t.Fatalf("log-normal: %v", err)
	}
	return d
}

func mustLogistic(t *testing.T, mu, s float64) *Logistic {
	t.Helper()
	d, err := NewLogistic(mu, s)
	if err != nil {
		t.Fatalf("logistic: %v", err)
	}
	return d
}

// CDF(QSmall(u)) 應還原 u，CompCDF(QLarge(v)) 應還原 v。
//
// 支撐集邊界是有限非零值的分布（uniform 的兩端、pareto 的 x_m 端）
// 在 u 極小時的誤差來自 x 本身的浮點表示，不是分位分支的鍋，
// 所以這些分布用較粗的網格。
func TestQuantileRoundTrip(t *testing.T) {
	uni, _ := NewUniform(2, 5)
	fine := []float64{1e-12, 1e-9, 1e-6, 1e-3, 0.01, 0.1, 0.25, 0.4, 0.5}
	coarse := []float64{1e-6, 1e-3, 0.01, 0.1, 0.25, 0.4, 0.5}
	dists := []struct {
		name string
		q    Quantile2
		grid []float64
	}{
		{"uniform", uni, coarse},
		{"exponential", mustExp(t, 2), fine},
		{"weibull", mustWeibull(t, 1.5, 0.8), fine},
		{"pareto", mustPareto(t, 1.5, 2.5), coarse},
		{"logistic", mustLogistic(t, -0.5, 1.2), fine},
		{"log-logistic", mustLogLogistic(t, 1, 2), fine},
	}
	for _, tc := range dists {
		for _, u := range tc.grid {
			if got := tc.q.CDF(tc.q.QSmall(u)); !relClose(got, u, 1e-8) {
				t.Fatalf("%s: CDF(QSmall(%v)) = %v", tc.name, u, got)
			}
			if got := tc.q.CompCDF(tc.q.QLarge(u)); !relClose(got, u, 1e-8) {
				t.Fatalf("%s: CompCDF(QLarge(%v)) = %v", tc.name, u, got)
			}
		}
	}
}

// 與 gonum distuv 的解析式互相對照，抓公式抄錯。
func TestAgainstGonum(t *testing.T) {
	xs := []float64{0.05, 0.3, 0.9, 1.7, 3.2, 8.5}

	type fns struct {
		pdf, cdf func(float64) float64
	}
	cases := []struct {
		name string
		ours CDFDist
		ref  fns
	}{
		{
			"exponential(2)", mustExp(t, 2),
			fns{distuv.Exponential{Rate: 2}.Prob, distuv.Exponential{Rate: 2}.CDF},
		},
		{
			"weibull(1.5,0.8)", mustWeibull(t, 1.5, 0.8),
			fns{distuv.Weibull{Lambda: 1.5, K: 0.8}.Prob, distuv.Weibull{Lambda: 1.5, K: 0.8}.CDF},
		},
		{
			"pareto(1.5,2.5)", mustPareto(t, 1.5, 2.5),
			fns{distuv.Pareto{Xm: 1.5, Alpha: 2.5}.Prob, distuv.Pareto{Xm: 1.5, Alpha: 2.5}.CDF},
		},
		{
			"normal(-1.5,3.1)", mustNormal(t, -1.5, 3.1),
			fns{distuv.Normal{Mu: -1.5, Sigma: 3.1}.Prob, distuv.Normal{Mu: -1.5, Sigma: 3.1}.CDF},
		},
		{
			"log-normal(0.2,0.7)", mustLogNormal(t, 0.2, 0.7),
			fns{distuv.LogNormal{Mu: 0.2, Sigma: 0.7}.Prob, distuv.LogNormal{Mu: 0.2, Sigma: 0.7}.CDF},
		},
		{
			"gamma(3.5,2)", mustGamma(t, 3.5, 2),
			fns{distuv.Gamma{Alpha: 3.5, Beta: 2}.Prob, distuv.Gamma{Alpha: 3.5, Beta: 2}.CDF},
		},
	}
	for _, tc := range cases {
		for _, x := range xs {
			if got, want := tc.ours.PDF(x), tc.ref.pdf(x); !relClose(got, want, 1e-10) {
				t.Fatalf("%s: PDF(%v) = %v, gonum %v", tc.name, x, got, want)
			}
			if got, want := tc.ours.CDF(x), tc.ref.cdf(x); !relClose(got, want, 1e-10) {
				t.Fatalf("%s: CDF(%v) = %v, gonum %v", tc.name, x, got, want)
			}
			if got, want := tc.ours.CompCDF(x), 1-tc.ref.cdf(x); math.Abs(got-want) > 1e-10 {
				t.Fatalf("%s: CompCDF(%v) = %v, gonum %v", tc.name, x, got, want)
			}
		}
	}
}

func mustNormal(t *testing.T, mu, sigma float64) *Normal {
	t.Helper()
	d, err := NewNormal(mu, sigma)
	if err != nil {
		t.Fatalf("normal: %v", err)
	}
	return d
}

func TestNormalMeanVariance(t *testing.T) {
	eng := testEngine(t)
	d := mustNormal(t, -1.5, 3.1)

	const n = 1_000_000
	xs := Sample(eng, d, n)

	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	if math.Abs(mean-(-1.5)) > 0.02 {
		t.Fatalf("sample mean %v too far from -1.5", mean)
	}

	var ss float64
	for _, x := range xs {
		df := x - mean
		ss += df * df
	}
	variance := ss / (n - 1)
	if math.Abs(variance-3.1*3.1) > 0.1 {
		t.Fatalf("sample variance %v too far from %v", variance, 3.1*3.1)
	}
}

func TestGammaMeanConvergence(t *testing.T) {
	eng := testEngine(t)
	d := mustGamma(t, 3.5, 2)

	const n = 200_000
	var sum float64
	for i := 0; i < n; i++ {
		sum += d.Draw(eng)
	}
	mean := sum / n
	if math.Abs(mean-d.Mean()) > 0.02 {
		t.Fatalf("gamma sample mean %v too far from %v", mean, d.Mean())
	}
}

// 快取行為：單抽兩次應重現成對抽一次的輸出（順序相反）。
func TestNormalPairCache(t *testing.T) {
	a := testEngine(t)
	b := testEngine(t)

	single := NewStandardNormal()
	paired := NewStandardNormal()

	s1 := single.Draw(a)
	s2 := single.Draw(a)
	p1, p2 := paired.DrawPair(b)

	if s1 != p2 || s2 != p1 {
		t.Fatalf("cache order mismatch: single (%v, %v), pair (%v, %v)", s1, s2, p1, p2)
	}

	single.ResetCache()
	if s3 := single.Draw(a); s3 == s2 {
		t.Fatalf("draw after reset repeated the cached value")
	}
}

func TestAntitheticPair(t *testing.T) {
	eng := testEngine(t)
	d := mustExp(t, 2)
	median := d.QSmall(0.5)
	for i := 0; i < 10000; i++ {
		small, large := AntitheticPair(eng, d)
		if small > median || large < median {
			t.Fatalf("antithetic pair (%v, %v) not straddling median %v", small, large, median)
		}
		if small > large {
			t.Fatalf("antithetic pair out of order: %v > %v", small, large)
		}
	}
}

func TestUniformIntChiSquare(t *testing.T) {
	eng := testEngine(t)
	d, err := NewUniformInt(0, 7)
	if err != nil {
		t.Fatalf("uniform-int: %v", err)
	}

	const n = 70_000
	counts := make([]int, 7)
	for i := 0; i < n; i++ {
		v := d.DrawInt(eng)
		if v < 0 || v >= 7 {
			t.Fatalf("uniform-int[0,7) drew %d", v)
		}
		counts[v]++
	}

	// chi-square 臨界值：df=6，p=0.001。
	const crit = 22.46
	expected := float64(n) / 7
	var stat float64
	for _, c := range counts {
		df := float64(c) - expected
		stat += df * df / expected
	}
	if stat > crit {
		t.Fatalf("chi-square stat %v exceeds %v, counts %v", stat, crit, counts)
	}
}

func TestUniformIntCrossesZero(t *testing.T) {
	eng := testEngine(t)
	d, err := NewUniformInt(-3, 4)
	if err != nil {
		t.Fatalf("uniform-int: %v", err)
	}
	seen := map[int64]bool{}
	for i := 0; i < 10000; i++ {
		v := d.DrawInt(eng)
		if v < -3 || v >= 4 {
			t.Fatalf("uniform-int[-3,4) drew %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 7 {
		t.Fatalf("expected all 7 values, saw %d", len(seen))
	}
}

func TestDiscreteFrequencies(t *testing.T) {
	eng := testEngine(t)
	d, err := NewDiscrete([]int64{1, 0, 3, 6})
	if err != nil {
		t.Fatalf("discrete: %v", err)
	}

	const n = 100_000
	counts := make([]int, 4)
	for i := 0; i < n; i++ {
		counts[d.Pick(eng)]++
	}

	if counts[1] != 0 {
		t.Fatalf("zero-weight index was picked %d times", counts[1])
	}
	want := []float64{0.1, 0, 0.3, 0.6}
	for i, w := range want {
		if w == 0 {
			continue
		}
		got := float64(counts[i]) / n
		if math.Abs(got-w) > 0.01 {
			t.Fatalf("index %d frequency %v, want %v", i, got, w)
		}
	}
}

func TestSamplePairPath(t *testing.T) {
	a := testEngine(t)
	b := testEngine(t)

	d1 := NewStandardNormal()
	d2 := NewStandardNormal()

	// 奇數長度逼出最後一格的單抽補尾。
	xs := Sample(a, d1, 7)
	if len(xs) != 7 {
		t.Fatalf("expected 7 samples, got %d", len(xs))
	}

	p1, p2 := d2.DrawPair(b)
	if xs[0] != p1 || xs[1] != p2 {
		t.Fatalf("pair path diverged from DrawPair")
	}
}

func TestFlipFlopBothBranches(t *testing.T) {
	eng := testEngine(t)
	d := mustExp(t, 1)
	median := math.Ln2
	below, above := 0, 0
	for i := 0; i < 10000; i++ {
		if FlipFlop(eng, d) < median {
			below++
		} else {
			above++
		}
	}
	// 兩個分支各伺候一半機率質量，不能有一邊完全沒跑到。
	if below < 4000 || above < 4000 {
		t.Fatalf("branch imbalance: below=%d above=%d", below, above)
	}
}
