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

// Package pqlab 提供精確取樣引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Lab 視為一個「可被後端/驗證工具使用的 runtime」，它把兩個地基組裝在一起：
//  1. Catalog：分布目錄（Single Source of Truth / SSOT），定義有哪些分布、各自需要哪些參數。
//  2. Engine（sdk/core）：precise quantile 取樣核心，保證可重現（reproducible）與可審計（auditable）。
//
// 設計重點：
//   - Lab 本身不持有 generator：state 由呼叫端保存與回送（stateless / deterministic），
//     每次 Run 都明確帶入一顆 Engine。
//   - 分布建構走 Catalog 的 Build，參數用 map[string]float64 表達，
//     HTTP 層與 CLI 層共用同一條路。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建分布並抽樣，結果轉 DTO 回傳。
//   - 驗證工具（cmd/validate）：對每個分布跑大樣本統計檢定。
package pqlab

import (
	"time"

	"github.com/zintix-labs/pqlab/catalog"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
	"github.com/zintix-labs/pqlab/sdk/dist"
	"github.com/zintix-labs/pqlab/stats"
)

// Lab 是組裝器：持有分布目錄，對外提供建分布與抽樣的入口。
type Lab struct {
	cat *catalog.Catalog
	sum []catalog.Summary
}

// New 建立一個帶內建分布目錄的 Lab，並直接 Freeze 進入執行階段。
func New() *Lab {
	cat := catalog.Default()
	cat.Freeze()
	return &Lab{cat: cat}
}

// NewWith 用呼叫端自組的目錄建立 Lab。
//
// 組裝階段（Register 額外分布）由呼叫端完成；這裡會 Freeze，
// runtime 一旦開始就不允許再變更目錄。
func NewWith(cat *catalog.Catalog) (*Lab, error) {
	if cat == nil {
		return nil, errs.Internalf("catalog required")
	}
	cat.Freeze()
	return &Lab{cat: cat}, nil
}

// Summaries 回傳目錄內所有分布的摘要（名稱、說明、參數）。
func (l *Lab) Summaries() []catalog.Summary {
	if l.sum == nil {
		l.sum = l.cat.Summaries()
	}
	return l.sum
}

// Build 依名稱與參數建出分布取樣器。
func (l *Lab) Build(name string, params map[string]float64) (dist.Sampler, error) {
	return l.cat.Build(name, params)
}

// RunSpec 描述一次抽樣工作。
type RunSpec struct {
	Dist   string             // 分布名稱
	Params map[string]float64 // 分布參數
	N      int                // 抽樣數
	Bins   int                // 報告直方圖箱數（0=預設）
	Report bool               // 是否計算統計報告
}

// RunResult 是一次抽樣工作的輸出。
type RunResult struct {
	Samples []float64
	Report  *stats.SampleReport
	Used    time.Duration
}

// Run 在指定的 generator 上執行一次抽樣工作。
//
// generator 的狀態由呼叫端負責擷取（Run 前 GetState 可重播、Run 後
// GetState 可續抽）；Run 只推進流水，不做任何保存。
func (l *Lab) Run(eng *core.Engine, spec RunSpec) (*RunResult, error) {
	if eng == nil {
		return nil, errs.Internalf("engine required")
	}
	if spec.N <= 0 {
		return nil, errs.Domainf("n must be positive, got %d", spec.N)
	}

	s, err := l.cat.Build(spec.Dist, spec.Params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	samples := dist.Sample(eng, s, spec.N)
	res := &RunResult{
		Samples: samples,
		Used:    time.Since(start),
	}

	if spec.Report {
		rep := stats.NewSampleReport(spec.Dist, samples, spec.Bins)
		if d, ok := s.(dist.Dist); ok {
			rep.WithAnalytic(d.Mean(), d.Variance())
		}
		res.Report = rep
	}
	return res, nil
}
