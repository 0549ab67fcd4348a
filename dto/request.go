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
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/pqlab/corefmt"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
)

// 防止 body 過大（預設 1MiB）
const maxBody = 1 << 20

type SampleRequest struct {
	Dist   string             `json:"dist"`             // 分布名稱（見 /v1/dists）
	Params map[string]float64 `json:"params,omitempty"` // 分布參數
	N      int                `json:"n"`                // 抽樣數
	Bins   int                `json:"bins,omitempty"`   // 報告直方圖箱數（0=預設）
	Report bool               `json:"report,omitempty"` // 是否附統計報告
	Raw    bool               `json:"raw,omitempty"`    // 是否回傳原始樣本（大 N 建議關閉）
	State  *StartState        `json:"state,omitempty"`  // 可選：起始 RNG 狀態（nil=自動取種）
}

// StartState 是由呼叫端帶入的「generator 可恢復狀態」（可選）。
//
// 兩種表示法擇一：
//   - state_str：空白分隔十進位的完整 state string（與存檔格式相同，
//     含 bit cache 時可完整重現 Bool 流水）。
//   - state_token：corefmt.PackStateToken 產生的緊湊 token。
//     token 只含 state word 與旋轉位置，不含 bit cache。
//
// 兩者同時提供視為 request 格式錯誤。缺省代表新局（自動取種）。
type StartState struct {
	StateStr   string `json:"state_str,omitempty"`
	StateToken string `json:"state_token,omitempty"`
}

func (ss *StartState) HasPayload() bool {
	if ss == nil {
		return false
	}
	return ss.StateStr != "" || ss.StateToken != ""
}

// BuildEngine 依 StartState 建出 generator。
//   - nil / 空 payload：自動取種。
//   - state_str：走完整的 state string 解析。
//   - state_token：解 token 還原 state word。
func (ss *StartState) BuildEngine() (*core.Engine, error) {
	if !ss.HasPayload() {
		return core.NewEngine()
	}
	if ss.StateStr != "" && ss.StateToken != "" {
		return nil, errs.SeedFormatf("state_str and state_token are mutually exclusive")
	}

	eng := core.NewEngineDeferred()
	if ss.StateStr != "" {
		if err := eng.SeedFromString(ss.StateStr); err != nil {
			return nil, err
		}
		return eng, nil
	}

	words, pos, err := corefmt.UnpackStateToken(ss.StateToken)
	if err != nil {
		return nil, err
	}
	if err := eng.Source().Restore(words, pos); err != nil {
		return nil, err
	}
	return eng, nil
}

// DecodeSampleRequest 會把 HTTP 請求解碼成 SampleRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（dist/n/bins/report/raw/state/token），
//     分布參數用 p_ 前綴，例如 ?dist=weibull&p_lambda=2&p_k=1.5&n=1000。
//   - POST：從 JSON body 反序列化。
//
// 注意：
//   - 這裡只負責「解碼（decode）」與基本型別轉換；分布與參數的合法性
//     由 catalog 與各分布建構子決定。
//   - POST 會開啟 DisallowUnknownFields()，對未知欄位採用嚴格拒絕，以避免靜默丟資料。
func DecodeSampleRequest(r *http.Request) (*SampleRequest, error) {
	if r == nil {
		return nil, errs.Domainf("nil request")
	}

	req := new(SampleRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Dist = q.Get("dist")

		if s := q.Get("n"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.Domainf("invalid n: %v", err)
			}
			req.N = v
		}
		if s := q.Get("bins"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.Domainf("invalid bins: %v", err)
			}
			req.Bins = v
		}
		if s := q.Get("report"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.Domainf("invalid report: %v", err)
			}
			req.Report = v
		}
		if s := q.Get("raw"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.Domainf("invalid raw: %v", err)
			}
			req.Raw = v
		}

		for key, vals := range q {
			name, ok := strings.CutPrefix(key, "p_")
			if !ok || len(vals) == 0 {
				continue
			}
			v, err := strconv.ParseFloat(vals[0], 64)
			if err != nil {
				return nil, errs.Domainf("invalid param %s: %v", name, err)
			}
			if req.Params == nil {
				req.Params = make(map[string]float64)
			}
			req.Params[name] = v
		}

		if s, tok := q.Get("state"), q.Get("token"); s != "" || tok != "" {
			req.State = &StartState{StateStr: s, StateToken: tok}
		}
		return req, nil

	case http.MethodPost:
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.WrapKind(err, errs.Domain, "invalid json")
		}
		return req, nil

	default:
		return nil, errs.Domainf("method not allowed")
	}
}

// Validate 做與分布無關的邊界檢查。maxN <= 0 表示不設上限。
func (sr *SampleRequest) Validate(maxN int) error {
	if sr.Dist == "" {
		return errs.Domainf("dist is required")
	}
	if sr.N <= 0 {
		return errs.Domainf("n must be positive, got %d", sr.N)
	}
	if maxN > 0 && sr.N > maxN {
		return errs.Rangef("n %d exceeds limit %d", sr.N, maxN)
	}
	return nil
}

type JumpRequest struct {
	Count int         `json:"count"`           // 要產生幾條平行流
	State *StartState `json:"state,omitempty"` // 起點（nil=自動取種）
}

func DecodeJumpRequest(r *http.Request) (*JumpRequest, error) {
	if r == nil {
		return nil, errs.Domainf("nil request")
	}

	req := new(JumpRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if s := q.Get("count"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.Domainf("invalid count: %v", err)
			}
			req.Count = v
		}
		if s, tok := q.Get("state"), q.Get("token"); s != "" || tok != "" {
			req.State = &StartState{StateStr: s, StateToken: tok}
		}
		return req, nil

	case http.MethodPost:
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.WrapKind(err, errs.Domain, "invalid json")
		}
		return req, nil

	default:
		return nil, errs.Domainf("method not allowed")
	}
}

func (jr *JumpRequest) Validate(maxCount int) error {
	if jr.Count <= 0 {
		return errs.Domainf("count must be positive, got %d", jr.Count)
	}
	if maxCount > 0 && jr.Count > maxCount {
		return errs.Rangef("count %d exceeds limit %d", jr.Count, maxCount)
	}
	return nil
}

type SeedRequest struct {
	State string `json:"state,omitempty"` // 缺省時自動取種
}

func DecodeSeedRequest(r *http.Request) (*SeedRequest, error) {
	if r == nil {
		return nil, errs.Domainf("nil request")
	}

	req := new(SeedRequest)
	if r.Method != http.MethodPost {
		return nil, errs.Domainf("method not allowed")
	}
	body := io.LimitReader(r.Body, maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil && err != io.EOF {
		return nil, errs.WrapKind(err, errs.Domain, "invalid json")
	}
	return req, nil
}
