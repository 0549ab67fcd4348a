package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// SampleReport 抽樣統計報告。
//
// 由一批樣本一次性計算（NewSampleReport）；Analytic 欄位在呼叫端
// 提供解析動差時由 WithAnalytic 填入，用來對照抽樣器是否收斂。
type SampleReport struct {
	Summary *SummaryReport `json:"Summary"`
	Hist    *HistReport    `json:"Hist,omitempty"`
}

type SummaryReport struct {
	DistName   string  `json:"DistName"`
	N          int     `json:"N"`
	Mean       float64 `json:"Mean"`
	MeanCI     CI      `json:"MeanCI"`
	Variance   float64 `json:"Variance"`
	Std        float64 `json:"Std"`
	Skew       float64 `json:"Skew"`
	ExKurtosis float64 `json:"ExKurtosis"`
	Min        float64 `json:"Min"`
	Max        float64 `json:"Max"`

	// 解析動差對照，缺省時不輸出。
	AnalyticMean *float64 `json:"AnalyticMean,omitempty"`
	AnalyticVar  *float64 `json:"AnalyticVar,omitempty"`
	// MeanZ = |Mean - AnalyticMean| / SE(Mean)，收斂檢查用。
	MeanZ *float64 `json:"MeanZ,omitempty"`
}

// HistReport 樣本落點直方圖（等寬分箱）。
type HistReport struct {
	Labels []string  `json:"Labels"`
	Counts []int     `json:"Counts"`
	Share  []float64 `json:"Share"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// NewSampleReport 由樣本一次性計算整份報告。
// bins <= 0 時用預設 12 箱。
func NewSampleReport(distName string, xs []float64, bins int) *SampleReport {
	n := len(xs)
	s := &SampleReport{
		Summary: &SummaryReport{DistName: distName, N: n},
	}
	if n == 0 {
		return s
	}

	mean, std := stat.MeanStdDev(xs, nil)
	s.Summary.Mean = mean
	s.Summary.Std = std
	s.Summary.Variance = std * std
	s.Summary.Skew = stat.Skew(xs, nil)
	s.Summary.ExKurtosis = stat.ExKurtosis(xs, nil)

	mn, mx := xs[0], xs[0]
	for _, x := range xs {
		if x < mn {
			mn = x
		}
		if x > mx {
			mx = x
		}
	}
	s.Summary.Min = mn
	s.Summary.Max = mx

	se := std / math.Sqrt(float64(n))
	s.Summary.MeanCI = CI{Lo: mean - 1.96*se, Hi: mean + 1.96*se}

	if bins <= 0 {
		bins = 12
	}
	s.Hist = buildHist(xs, mn, mx, bins)
	return s
}

// WithAnalytic 填入解析動差對照與收斂 z 值。
// 重尾分布的發散動差（例如 pareto α<=2 的變異數）為 ±Inf，
// 不列入報告；encoding/json 無法編碼非有限值。
func (s *SampleReport) WithAnalytic(mean, variance float64) *SampleReport {
	if finite(mean) {
		s.Summary.AnalyticMean = &mean
	}
	if finite(variance) {
		s.Summary.AnalyticVar = &variance
	}
	if s.Summary.N > 1 && s.Summary.Std > 0 && finite(mean) {
		se := s.Summary.Std / math.Sqrt(float64(s.Summary.N))
		z := math.Abs(s.Summary.Mean-mean) / se
		s.Summary.MeanZ = &z
	}
	return s
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func (s *SampleReport) WriteWith(w io.Writer, rep SampleReportRender) error {
	return rep.Write(w, s)
}

// StdOut 以表格輸出到標準輸出，附帶耗時與吞吐。
func (s *SampleReport) StdOut(ut time.Duration) {
	formatDuration(ut, s.Summary.N)
	sk, sm := s.fmtBasic()
	str := fmtTable(s.Summary.DistName, sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func buildHist(xs []float64, mn, mx float64, bins int) *HistReport {
	if mx <= mn {
		return nil
	}
	width := (mx - mn) / float64(bins)
	counts := make([]int, bins)
	for _, x := range xs {
		idx := int((x - mn) / width)
		if idx >= bins {
			idx = bins - 1 // x == mx 收進最後一箱
		}
		counts[idx]++
	}

	labels := make([]string, bins)
	share := make([]float64, bins)
	total := float64(len(xs))
	for i := 0; i < bins; i++ {
		lo := mn + float64(i)*width
		hi := lo + width
		labels[i] = fmt.Sprintf("[%.4g,%.4g)", lo, hi)
		share[i] = float64(counts[i]) / total
	}
	labels[bins-1] = strings.Replace(labels[bins-1], ")", "]", 1)
	return &HistReport{Labels: labels, Counts: counts, Share: share}
}

func formatDuration(d time.Duration, draws int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

// StdOut

func (s *SampleReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sum := s.Summary
	basic := map[string]string{
		"Distribution": sum.DistName,
		"Samples":      p.Sprintf("%d", sum.N),
		"Mean":         p.Sprintf("%.6g", sum.Mean),
		"Mean 95% CI":  p.Sprintf("[%.6g, %.6g]", sum.MeanCI.Lo, sum.MeanCI.Hi),
		"Variance":     p.Sprintf("%.6g", sum.Variance),
		"STD":          p.Sprintf("%.6g", sum.Std),
		"Skew":         p.Sprintf("%.4g", sum.Skew),
		"Ex Kurtosis":  p.Sprintf("%.4g", sum.ExKurtosis),
		"Min":          p.Sprintf("%.6g", sum.Min),
		"Max":          p.Sprintf("%.6g", sum.Max),
	}
	keys := []string{"Distribution", "Samples", "Mean", "Mean 95% CI", "Variance", "STD", "Skew", "Ex Kurtosis", "Min", "Max"}
	if sum.AnalyticMean != nil {
		basic["Analytic Mean"] = p.Sprintf("%.6g", *sum.AnalyticMean)
		keys = append(keys, "Analytic Mean")
	}
	if sum.AnalyticVar != nil {
		basic["Analytic Var"] = p.Sprintf("%.6g", *sum.AnalyticVar)
		keys = append(keys, "Analytic Var")
	}
	if sum.MeanZ != nil {
		basic["Mean Z"] = p.Sprintf("%.3f", *sum.MeanZ)
		keys = append(keys, "Mean Z")
	}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
