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

package catalog_test

import (
	"testing"

	"github.com/zintix-labs/pqlab/catalog"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/dist"
)

func TestDefaultCatalog(t *testing.T) {
	c := catalog.Default()
	want := []string{
		"exponential", "gamma", "log-logistic", "log-normal", "logistic",
		"normal", "pareto", "standard-normal", "uniform", "uniform-int", "weibull",
	}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildAllBuiltins(t *testing.T) {
	c := catalog.Default()
	params := map[string]map[string]float64{
		"uniform":         {"a": 0, "b": 1},
		"standard-normal": {},
		"normal":          {"mu": 0, "sigma": 1},
		"log-normal":      {"mu": 0, "sigma": 1},
		"exponential":     {"lambda": 1},
		"weibull":         {"lambda": 1, "k": 2},
		"pareto":          {"xm": 1, "alpha": 3},
		"logistic":        {"mu": 0, "s": 1},
		"log-logistic":    {"alpha": 1, "beta": 3},
		"gamma":           {"k": 2, "lambda": 1},
		"uniform-int":     {"min": 0, "max": 10},
	}
	for _, name := range c.Names() {
		p, ok := params[name]
		if !ok {
			t.Fatalf("no test params for builtin %q", name)
		}
		s, err := c.Build(name, p)
		if err != nil {
			t.Errorf("build %s: %v", name, err)
			continue
		}
		if s == nil {
			t.Errorf("%s: builder returned nil sampler", name)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	c := catalog.Default()

	if _, err := c.Build("nope", nil); !errs.IsKind(err, errs.Domain) {
		t.Errorf("unknown dist: kind = %v, want Domain", err)
	}
	if _, err := c.Build("weibull", map[string]float64{"lambda": 1}); !errs.IsKind(err, errs.Domain) {
		t.Errorf("missing param: kind = %v, want Domain", err)
	}
	if _, err := c.Build("exponential", map[string]float64{"lambda": 1, "rate": 2}); !errs.IsKind(err, errs.Domain) {
		t.Errorf("unknown param: kind = %v, want Domain", err)
	}
	// 參數鍵對了但值非法：錯誤來自分布建構子
	if _, err := c.Build("exponential", map[string]float64{"lambda": -1}); !errs.IsKind(err, errs.Domain) {
		t.Errorf("bad value: kind = %v, want Domain", err)
	}
}

func TestRegisterAndFreeze(t *testing.T) {
	c := catalog.New()
	ent := catalog.Entry{
		Name:   "Coin",
		Doc:    "fair coin",
		Params: []string{},
		Build: func(map[string]float64) (dist.Sampler, error) {
			return dist.NewUniformInt(0, 2)
		},
	}
	if err := c.Register(ent); err != nil {
		t.Fatalf("register: %v", err)
	}
	// 名稱正規化：大小寫不敏感
	if _, ok := c.Get("coin"); !ok {
		t.Error("normalized lookup failed")
	}
	if err := c.Register(catalog.Entry{Name: "COIN", Build: ent.Build}); err == nil {
		t.Error("duplicate name accepted")
	}

	c.Freeze()
	if err := c.Register(catalog.Entry{Name: "late", Build: ent.Build}); err == nil {
		t.Error("register after freeze accepted")
	}
}
