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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/pqlab/stats"
	"gopkg.in/yaml.v3"
)

func almostEq(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSampleReportMoments(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	r := stats.NewSampleReport("uniform-int", xs, 4)

	if r.Summary.N != 8 {
		t.Fatalf("N = %d, want 8", r.Summary.N)
	}
	if !almostEq(r.Summary.Mean, 4.5, 1e-12) {
		t.Errorf("Mean = %v, want 4.5", r.Summary.Mean)
	}
	// 樣本變異數（除以 n-1）：6
	if !almostEq(r.Summary.Variance, 6.0, 1e-12) {
		t.Errorf("Variance = %v, want 6", r.Summary.Variance)
	}
	if r.Summary.Min != 1 || r.Summary.Max != 8 {
		t.Errorf("Min/Max = %v/%v, want 1/8", r.Summary.Min, r.Summary.Max)
	}
	if r.Summary.MeanCI.Lo >= r.Summary.Mean || r.Summary.MeanCI.Hi <= r.Summary.Mean {
		t.Errorf("CI %+v does not straddle mean", r.Summary.MeanCI)
	}
	if !almostEq(r.Summary.Skew, 0, 1e-12) {
		t.Errorf("Skew = %v, want 0 for symmetric data", r.Summary.Skew)
	}
}

func TestSampleReportHist(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	r := stats.NewSampleReport("uniform", xs, 4)
	if r.Hist == nil {
		t.Fatal("expected histogram")
	}
	if len(r.Hist.Counts) != 4 {
		t.Fatalf("bins = %d, want 4", len(r.Hist.Counts))
	}
	// 等寬 4 箱，每箱 2 個樣本，最大值收最後一箱。
	total := 0
	for i, c := range r.Hist.Counts {
		if c != 2 {
			t.Errorf("bucket %d count = %d, want 2", i, c)
		}
		total += c
	}
	if total != len(xs) {
		t.Errorf("hist total = %d, want %d", total, len(xs))
	}
	last := r.Hist.Labels[len(r.Hist.Labels)-1]
	if !strings.HasSuffix(last, "]") {
		t.Errorf("last label %q should be right-closed", last)
	}
}

func TestSampleReportDegenerate(t *testing.T) {
	r := stats.NewSampleReport("empty", nil, 8)
	if r.Summary.N != 0 {
		t.Fatalf("N = %d, want 0", r.Summary.N)
	}
	if r.Hist != nil {
		t.Error("empty input should not build a histogram")
	}

	// 所有樣本相同：分箱沒有意義，直方圖省略。
	same := stats.NewSampleReport("const", []float64{3.5, 3.5, 3.5}, 8)
	if same.Hist != nil {
		t.Error("constant input should not build a histogram")
	}
	if same.Summary.Std != 0 {
		t.Errorf("Std = %v, want 0", same.Summary.Std)
	}
}

func TestWithAnalytic(t *testing.T) {
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = float64(i % 10)
	}
	r := stats.NewSampleReport("check", xs, 0).WithAnalytic(4.5, 8.25)
	if r.Summary.AnalyticMean == nil || *r.Summary.AnalyticMean != 4.5 {
		t.Fatal("analytic mean not recorded")
	}
	if r.Summary.MeanZ == nil {
		t.Fatal("expected MeanZ")
	}
	if *r.Summary.MeanZ > 1e-6 {
		t.Errorf("MeanZ = %v, want ~0 for exact mean", *r.Summary.MeanZ)
	}
}

// 重尾分布（如 pareto α=1.5）的解析變異數發散，報告必須仍可 JSON 編碼。
func TestWithAnalyticInfiniteMoments(t *testing.T) {
	xs := []float64{1.1, 1.4, 2.0, 3.7, 9.2}
	r := stats.NewSampleReport("pareto", xs, 0).WithAnalytic(3.0, math.Inf(1))

	if r.Summary.AnalyticMean == nil || *r.Summary.AnalyticMean != 3.0 {
		t.Fatal("finite analytic mean not recorded")
	}
	if r.Summary.AnalyticVar != nil {
		t.Errorf("infinite analytic variance recorded: %v", *r.Summary.AnalyticVar)
	}
	if r.Summary.MeanZ == nil {
		t.Error("expected MeanZ for finite analytic mean")
	}
	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("report not JSON-encodable: %v", err)
	}

	// 均值也發散時（α<=1），對照欄位全部省略。
	r = stats.NewSampleReport("pareto", xs, 0).WithAnalytic(math.Inf(1), math.Inf(1))
	if r.Summary.AnalyticMean != nil || r.Summary.AnalyticVar != nil || r.Summary.MeanZ != nil {
		t.Error("divergent moments should leave analytic fields empty")
	}
	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("report not JSON-encodable: %v", err)
	}
}

func TestJsonRender(t *testing.T) {
	r := stats.NewSampleReport("exp", []float64{0.5, 1.5, 2.5, 3.5}, 2)

	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.JsonSampleReportRender{}); err != nil {
		t.Fatalf("json render: %v", err)
	}

	var back stats.SampleReport
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Summary.N != 4 || back.Summary.Mean != r.Summary.Mean {
		t.Errorf("round trip mismatch: %+v", back.Summary)
	}
}

func TestYAMLRenderFlowStyle(t *testing.T) {
	r := stats.NewSampleReport("exp", []float64{0.5, 1.5, 2.5, 3.5}, 2)

	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.YAMLSampleReportRender{}); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	out := buf.String()

	// 一維陣列應輸出 flow style。
	if !strings.Contains(out, "[") {
		t.Errorf("expected flow style sequences in output:\n%s", out)
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml output not parseable: %v", err)
	}
}
