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

// Package catalog 是分布目錄（Single Source of Truth / SSOT）：
// 定義這個 runtime 認得哪些分布、各自需要哪些參數、以及如何建構。
//
// 名稱唯一性只保證在同一個 Catalog instance 內。runtime 開始對外
// 服務之後請先 Freeze，之後的 Register 一律失敗，避免行為不確定。
package catalog

import (
	"sort"
	"strings"

	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/dist"
)

// Entry 是一個可建構的分布：名稱、參數名清單、建構函數。
// Build 收到的 params 保證恰好含 Params 列出的鍵（Catalog.Build 先驗過）。
type Entry struct {
	Name   string
	Doc    string
	Params []string
	Build  func(params map[string]float64) (dist.Sampler, error)
}

// Summary 是目錄的對外展示形狀（HTTP /v1/dists 用）。
type Summary struct {
	Name   string   `json:"name"`
	Doc    string   `json:"doc"`
	Params []string `json:"params"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string // 穩定排序
	frozen bool
}

func New() *Catalog {
	return &Catalog{byName: map[string]Entry{}}
}

// Default 回傳已註冊全部內建分布的目錄。
func Default() *Catalog {
	c := New()
	// 內建項目不可能撞名，錯誤只會來自程式編寫失誤。
	if err := c.Register(builtins()...); err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Register(entries ...Entry) error {
	if c.frozen {
		return errs.Domainf("catalog: can not register when already frozen")
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		name := normName(e.Name)
		if name == "" {
			return errs.Domainf("catalog: distribution name required")
		}
		if e.Build == nil {
			return errs.Domainf("catalog: %s has no builder", name)
		}
		if _, ok := c.byName[name]; ok {
			return errs.Domainf("catalog: duplicate distribution %s", name)
		}
		if _, ok := seen[name]; ok {
			return errs.Domainf("catalog: duplicate distribution %s", name)
		}
		seen[name] = struct{}{}
	}
	for _, e := range entries {
		name := normName(e.Name)
		e.Name = name
		c.byName[name] = e
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return nil
}

// Freeze 鎖定目錄。之後的 Register 一律失敗。
func (c *Catalog) Freeze() { c.frozen = true }

func (c *Catalog) Get(name string) (Entry, bool) {
	e, ok := c.byName[normName(name)]
	return e, ok
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.names))
	for _, n := range c.names {
		e := c.byName[n]
		out = append(out, Summary{Name: e.Name, Doc: e.Doc, Params: e.Params})
	}
	return out
}

// Build 驗參數鍵集合後呼叫該分布的建構函數。
// 未知分布、缺鍵、多鍵都是 Domain 錯誤。
func (c *Catalog) Build(name string, params map[string]float64) (dist.Sampler, error) {
	e, ok := c.Get(name)
	if !ok {
		return nil, errs.Domainf("catalog: unknown distribution %q", name)
	}
	for _, p := range e.Params {
		if _, ok := params[p]; !ok {
			return nil, errs.Domainf("catalog: %s requires parameter %q", e.Name, p)
		}
	}
	if len(params) != len(e.Params) {
		for k := range params {
			if !contains(e.Params, k) {
				return nil, errs.Domainf("catalog: %s does not take parameter %q", e.Name, k)
			}
		}
	}
	return e.Build(params)
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func builtins() []Entry {
	return []Entry{
		{
			Name: "uniform", Doc: "continuous uniform on (a, b]", Params: []string{"a", "b"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewUniform(p["a"], p["b"]) },
		},
		{
			Name: "standard-normal", Doc: "normal with mean 0 and sigma 1 (Marsaglia polar)", Params: nil,
			Build: func(map[string]float64) (dist.Sampler, error) { return dist.NewStandardNormal(), nil },
		},
		{
			Name: "normal", Doc: "normal with mean mu and deviation sigma", Params: []string{"mu", "sigma"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewNormal(p["mu"], p["sigma"]) },
		},
		{
			Name: "log-normal", Doc: "exponential of a normal variate", Params: []string{"mu", "sigma"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewLogNormal(p["mu"], p["sigma"]) },
		},
		{
			Name: "exponential", Doc: "exponential with rate lambda", Params: []string{"lambda"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewExponential(p["lambda"]) },
		},
		{
			Name: "weibull", Doc: "Weibull with scale lambda and shape k", Params: []string{"lambda", "k"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewWeibull(p["lambda"], p["k"]) },
		},
		{
			Name: "pareto", Doc: "Pareto with scale xm and tail index alpha", Params: []string{"xm", "alpha"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewPareto(p["xm"], p["alpha"]) },
		},
		{
			Name: "logistic", Doc: "logistic with location mu and scale s", Params: []string{"mu", "s"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewLogistic(p["mu"], p["s"]) },
		},
		{
			Name: "log-logistic", Doc: "log-logistic with scale alpha and shape beta", Params: []string{"alpha", "beta"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewLogLogistic(p["alpha"], p["beta"]) },
		},
		{
			Name: "gamma", Doc: "gamma with shape k > 1 and rate lambda (Cheng rejection)", Params: []string{"k", "lambda"},
			Build: func(p map[string]float64) (dist.Sampler, error) { return dist.NewGamma(p["k"], p["lambda"]) },
		},
		{
			Name: "uniform-int", Doc: "integers on [min, max), unbiased", Params: []string{"min", "max"},
			Build: func(p map[string]float64) (dist.Sampler, error) {
				return dist.NewUniformInt(int64(p["min"]), int64(p["max"]))
			},
		},
	}
}
