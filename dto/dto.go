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

package dto

import (
	"github.com/zintix-labs/pqlab/catalog"
	"github.com/zintix-labs/pqlab/corefmt"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
	"github.com/zintix-labs/pqlab/stats"
)

// StateInfo 是 generator 狀態的對外表示。
//
// Str 為完整 state string（含 bit cache，可無損恢復）；Token 為緊湊
// URL-safe 形式（只含 state word 與旋轉位置）；FP 為指紋，給 log 與
// 審計比對用，不能反推 state。
type StateInfo struct {
	Str   string `json:"str"`
	Token string `json:"token"`
	FP    string `json:"fp"`
}

// NewStateInfo 擷取 generator 當下的狀態快照。
func NewStateInfo(eng *core.Engine) (StateInfo, error) {
	if eng == nil {
		return StateInfo{}, errs.Internalf("engine is nil")
	}
	str := eng.GetState()
	words, pos := eng.Source().State()
	return StateInfo{
		Str:   str,
		Token: corefmt.PackStateToken(words, pos),
		FP:    corefmt.Fingerprint(str),
	}, nil
}

// SampleState 跟著每次抽樣回傳：Start 可重播本批樣本，After 可接續流水。
type SampleState struct {
	Start StateInfo `json:"start"`
	After StateInfo `json:"after"`
}

type SampleResponse struct {
	Dist    string              `json:"dist"`
	N       int                 `json:"n"`
	Samples []float64           `json:"samples,omitempty"`
	Report  *stats.SampleReport `json:"report,omitempty"`
	State   SampleState         `json:"state"`
	UsedMs  float64             `json:"used_ms"`
}

type JumpResponse struct {
	Count  int         `json:"count"`
	States []StateInfo `json:"states"`
}

// NewJumpResponse 把 jump vector 的 state string 轉成對外表示。
func NewJumpResponse(states []string) (*JumpResponse, error) {
	resp := &JumpResponse{
		Count:  len(states),
		States: make([]StateInfo, len(states)),
	}
	for i, s := range states {
		eng := core.NewEngineDeferred()
		if err := eng.SeedFromString(s); err != nil {
			return nil, errs.Wrap(err, "jump state re-parse failed")
		}
		info, err := NewStateInfo(eng)
		if err != nil {
			return nil, err
		}
		resp.States[i] = info
	}
	return resp, nil
}

type SeedResponse struct {
	State StateInfo `json:"state"`
}

type DistListResponse struct {
	Dists []catalog.Summary `json:"dists"`
}
