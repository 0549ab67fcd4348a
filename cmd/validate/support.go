package main

import (
	"flag"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/pqlab"
	"github.com/zintix-labs/pqlab/sdk/core"
	"github.com/zintix-labs/pqlab/sdk/dist"
	"github.com/zintix-labs/pqlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var cfg *config = new(config)

type config struct {
	dist      string
	n         int
	bins      int
	scenario  string
	stateFile string
	render    string
	pprofmode string
	showpb    bool
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.dist, "dist", "all", "distribution name, or 'all' for the whole catalog")
	flag.IntVar(&cfg.n, "n", 1000000, "draws per distribution")
	flag.IntVar(&cfg.bins, "bins", 12, "histogram bins in reports")
	flag.StringVar(&cfg.scenario, "scenario", "", "YAML scenario file (overrides -dist/-n)")
	flag.StringVar(&cfg.stateFile, "state", "", "generator state file (empty = auto seed)")
	flag.StringVar(&cfg.render, "render", "", "report render: '', json, yaml")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	if cfg.n < 1 {
		log.Fatal("value err : n must > 0")
	}
}

// scenarioCase 是 YAML scenario 檔裡的一筆驗證工作。
type scenarioCase struct {
	Dist   string             `yaml:"dist"`
	Params map[string]float64 `yaml:"params"`
	N      int                `yaml:"n"`
}

type scenarioFile struct {
	Cases []scenarioCase `yaml:"cases"`
}

// 內建的驗證組：涵蓋目錄內每個分布各一組代表性參數。
func defaultCases(n int) []scenarioCase {
	return []scenarioCase{
		{Dist: "uniform", Params: map[string]float64{"a": -1, "b": 3}, N: n},
		{Dist: "standard-normal", N: n},
		{Dist: "normal", Params: map[string]float64{"mu": -1.5, "sigma": 3.1}, N: n},
		{Dist: "log-normal", Params: map[string]float64{"mu": 0.2, "sigma": 0.6}, N: n},
		{Dist: "exponential", Params: map[string]float64{"lambda": 0.75}, N: n},
		{Dist: "weibull", Params: map[string]float64{"lambda": 2, "k": 1.5}, N: n},
		{Dist: "pareto", Params: map[string]float64{"xm": 1, "alpha": 3.5}, N: n},
		{Dist: "logistic", Params: map[string]float64{"mu": 2, "s": 0.8}, N: n},
		{Dist: "log-logistic", Params: map[string]float64{"alpha": 1, "beta": 4}, N: n},
		{Dist: "gamma", Params: map[string]float64{"k": 2.5, "lambda": 1.5}, N: n},
		{Dist: "uniform-int", Params: map[string]float64{"min": 0, "max": 10}, N: n},
	}
}

func loadCases() []scenarioCase {
	if cfg.scenario == "" {
		if cfg.dist == "all" {
			return defaultCases(cfg.n)
		}
		// 單一分布走內建參數
		for _, c := range defaultCases(cfg.n) {
			if c.Dist == cfg.dist {
				return []scenarioCase{c}
			}
		}
		log.Fatalf("unknown dist %q (try -scenario for custom params)", cfg.dist)
	}

	raw, err := os.ReadFile(cfg.scenario)
	if err != nil {
		log.Fatal(err)
	}
	sf := new(scenarioFile)
	if err := yaml.Unmarshal(raw, sf); err != nil {
		log.Fatal(err)
	}
	if len(sf.Cases) == 0 {
		log.Fatal("scenario file has no cases")
	}
	for i := range sf.Cases {
		if sf.Cases[i].N <= 0 {
			sf.Cases[i].N = cfg.n
		}
	}
	return sf.Cases
}

func buildEngine() *core.Engine {
	if cfg.stateFile == "" {
		eng, err := core.NewEngine()
		if err != nil {
			log.Fatal(err)
		}
		return eng
	}
	eng := core.NewEngineDeferred()
	if err := eng.SeedFromFile(cfg.stateFile); err != nil {
		log.Fatal(err)
	}
	return eng
}

// 這裡解析並執行整套驗證
func executeValidation() {
	lab := pqlab.New()
	cases := loadCases()
	eng := buildEngine()

	green := "\033[1;32m"
	red := "\033[1;31m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	failed := 0
	for _, c := range cases {
		p.Printf("%s[DIST:%s] [DRAWS:%d]%s\n", green, c.Dist, c.N, reset)
		if !runCase(lab, eng, c, p) {
			p.Printf("%s[FAIL] %s%s\n", red, c.Dist, reset)
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("validation failed: %d of %d cases", failed, len(cases))
	}
	p.Printf("%sall %d cases passed%s\n", green, len(cases), reset)
}

func runCase(lab *pqlab.Lab, eng *core.Engine, c scenarioCase, p *message.Printer) bool {
	s, err := lab.Build(c.Dist, c.Params)
	if err != nil {
		log.Fatal(err)
	}

	bar := pb.StartNew(c.N)
	if !cfg.showpb {
		bar.SetWriter(io.Discard)
	}

	// 分塊抽樣，讓進度條有得動
	const chunk = 1 << 16
	samples := make([]float64, 0, c.N)
	for len(samples) < c.N {
		m := min(chunk, c.N-len(samples))
		samples = append(samples, dist.Sample(eng, s, m)...)
		bar.Add(m)
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	st := stats.NewSampleReport(c.Dist, samples, cfg.bins)
	ok := true

	// 1. 支撐檢查：樣本必須落在分布的支撐內
	if st.Summary.Min < s.Min() || st.Summary.Max > s.Max() {
		p.Printf("support violated: samples [%g, %g] outside [%g, %g]\n",
			st.Summary.Min, st.Summary.Max, s.Min(), s.Max())
		ok = false
	}

	// 2. 動差檢查：樣本均值對解析均值的 z 值
	if d, hasMoments := s.(dist.Dist); hasMoments {
		st.WithAnalytic(d.Mean(), d.Variance())
		if z := st.Summary.MeanZ; z != nil && *z > 4.5 {
			p.Printf("mean z-score too large: %.2f\n", *z)
			ok = false
		}
	}

	// 3. 分位數來回檢查：QSmall/QLarge 與 CDF/CompCDF 要互為反函數
	if q, hasQ := s.(dist.Quantile2); hasQ {
		if !checkQuantileInverse(q, p) {
			ok = false
		}
	}

	switch cfg.render {
	case "json":
		st.WriteWith(os.Stdout, &stats.JsonSampleReportRender{})
	case "yaml":
		st.WriteWith(os.Stdout, &stats.YAMLSampleReportRender{})
	default:
		st.StdOut(used)
	}
	return ok
}

// checkQuantileInverse 驗證 CDF(QSmall(u)) == u 與 CompCDF(QLarge(v)) == v。
// 網格避開支撐邊界附近的浮點表示誤差。
func checkQuantileInverse(q dist.Quantile2, p *message.Printer) bool {
	grid := []float64{1e-6, 1e-3, 0.05, 0.25, 0.5}
	ok := true
	for _, u := range grid {
		if got := q.CDF(q.QSmall(u)); relErr(got, u) > 1e-8 {
			p.Printf("quantile round trip failed: CDF(QSmall(%g)) = %g\n", u, got)
			ok = false
		}
		if got := q.CompCDF(q.QLarge(u)); relErr(got, u) > 1e-8 {
			p.Printf("quantile round trip failed: CompCDF(QLarge(%g)) = %g\n", u, got)
			ok = false
		}
	}
	return ok
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}
