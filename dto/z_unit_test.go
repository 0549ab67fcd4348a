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

package dto_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/pqlab/dto"
	"github.com/zintix-labs/pqlab/errs"
)

const refSeed = "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 16 0"

func TestDecodeSampleRequestGet(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/sample?dist=weibull&p_lambda=2&p_k=1.5&n=1000&report=true&bins=8", nil)
	req, err := dto.DecodeSampleRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Dist != "weibull" || req.N != 1000 || req.Bins != 8 || !req.Report {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Params["lambda"] != 2 || req.Params["k"] != 1.5 {
		t.Errorf("params = %v", req.Params)
	}
	if req.State != nil {
		t.Error("state should be nil when absent")
	}
}

func TestDecodeSampleRequestPost(t *testing.T) {
	body := `{"dist":"exponential","params":{"lambda":0.5},"n":100,"state":{"state_str":"` + refSeed + `"}}`
	r := httptest.NewRequest("POST", "/v1/sample", strings.NewReader(body))
	req, err := dto.DecodeSampleRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Dist != "exponential" || req.N != 100 {
		t.Errorf("unexpected request: %+v", req)
	}
	if !req.State.HasPayload() || req.State.StateStr != refSeed {
		t.Errorf("state = %+v", req.State)
	}
}

func TestDecodeSampleRequestUnknownField(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/sample", strings.NewReader(`{"dist":"uniform","n":1,"bogus":1}`))
	if _, err := dto.DecodeSampleRequest(r); err == nil {
		t.Fatal("expected error for unknown field")
	} else if !errs.IsKind(err, errs.Domain) {
		t.Errorf("kind = %v, want Domain", err)
	}
}

func TestSampleRequestValidate(t *testing.T) {
	req := &dto.SampleRequest{Dist: "uniform", N: 10}
	if err := req.Validate(100); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := (&dto.SampleRequest{N: 10}).Validate(0); !errs.IsKind(err, errs.Domain) {
		t.Errorf("missing dist: kind = %v, want Domain", err)
	}
	if err := (&dto.SampleRequest{Dist: "uniform", N: 0}).Validate(0); !errs.IsKind(err, errs.Domain) {
		t.Errorf("n=0: kind = %v, want Domain", err)
	}
	if err := (&dto.SampleRequest{Dist: "uniform", N: 1000}).Validate(100); !errs.IsKind(err, errs.Range) {
		t.Errorf("over limit: kind = %v, want Range", err)
	}
}

func TestBuildEngineFromStateStr(t *testing.T) {
	ss := &dto.StartState{StateStr: refSeed}
	eng, err := ss.BuildEngine()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := eng.GetState(); got != refSeed {
		t.Errorf("state = %q, want %q", got, refSeed)
	}
}

func TestBuildEngineFromToken(t *testing.T) {
	ss := &dto.StartState{StateStr: refSeed}
	eng, err := ss.BuildEngine()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	info, err := dto.NewStateInfo(eng)
	if err != nil {
		t.Fatalf("state info: %v", err)
	}

	eng2, err := (&dto.StartState{StateToken: info.Token}).BuildEngine()
	if err != nil {
		t.Fatalf("build from token: %v", err)
	}
	// token 只含 state word 與旋轉位置，raw 流水必須一致。
	for i := 0; i < 16; i++ {
		if a, b := eng.Next(), eng2.Next(); a != b {
			t.Fatalf("draw %d: %d != %d", i, a, b)
		}
	}
}

func TestBuildEngineExclusive(t *testing.T) {
	ss := &dto.StartState{StateStr: refSeed, StateToken: "abc"}
	if _, err := ss.BuildEngine(); !errs.IsKind(err, errs.SeedFormat) {
		t.Errorf("kind = %v, want SeedFormat", err)
	}
}

func TestBuildEngineAutoSeed(t *testing.T) {
	a, err := (*dto.StartState)(nil).BuildEngine()
	if err != nil {
		t.Fatalf("auto seed: %v", err)
	}
	b, err := (&dto.StartState{}).BuildEngine()
	if err != nil {
		t.Fatalf("auto seed: %v", err)
	}
	if a.GetState() == b.GetState() {
		t.Error("two auto seeds produced identical state")
	}
}

func TestNewStateInfoFingerprint(t *testing.T) {
	eng, err := (&dto.StartState{StateStr: refSeed}).BuildEngine()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	i1, _ := dto.NewStateInfo(eng)
	eng.Next()
	i2, _ := dto.NewStateInfo(eng)
	if i1.FP == i2.FP {
		t.Error("fingerprint did not change after draw")
	}
	if i1.Str != refSeed {
		t.Errorf("str = %q", i1.Str)
	}
}

func TestNewJumpResponse(t *testing.T) {
	eng, err := (&dto.StartState{StateStr: refSeed}).BuildEngine()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	resp, err := dto.NewJumpResponse(eng.JumpVector(3))
	if err != nil {
		t.Fatalf("jump response: %v", err)
	}
	if resp.Count != 3 || len(resp.States) != 3 {
		t.Fatalf("count = %d, states = %d", resp.Count, len(resp.States))
	}
	if resp.States[0].Str != refSeed {
		t.Errorf("first state = %q, want start", resp.States[0].Str)
	}
	seen := map[string]bool{}
	for _, s := range resp.States {
		if seen[s.FP] {
			t.Error("duplicate fingerprint in jump vector")
		}
		seen[s.FP] = true
	}
}

func TestDecodeJumpRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/jump?count=4", nil)
	req, err := dto.DecodeJumpRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Count != 4 {
		t.Errorf("count = %d, want 4", req.Count)
	}
	if err := req.Validate(2); !errs.IsKind(err, errs.Range) {
		t.Errorf("over limit: kind = %v, want Range", err)
	}
}

func TestDecodeSeedRequestEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/seed", nil)
	req, err := dto.DecodeSeedRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.State != "" {
		t.Errorf("state = %q, want empty", req.State)
	}
}
