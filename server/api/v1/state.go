package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/pqlab/dto"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/sdk/core"
	"github.com/zintix-labs/pqlab/server/httperr"
	"github.com/zintix-labs/pqlab/server/svrcfg"
)

type StateHandler struct {
	maxJump int
}

func NewStateHandler(sc *svrcfg.SvrCfg) (*StateHandler, error) {
	if sc == nil {
		return nil, errs.Internalf("server config required")
	}
	return &StateHandler{maxJump: sc.MaxJumpN}, nil
}

// Seed 產生或解析一顆 generator state。
//
// body 帶 state 時走解析（等同存檔格式校驗），缺省時自動取種
// （crypto/rand）。回應是同一份 state 的三種表示（str/token/fp）。
func (st *StateHandler) Seed(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeSeedRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	var eng *core.Engine
	if req.State == "" {
		eng, err = core.NewEngine()
	} else {
		eng = core.NewEngineDeferred()
		err = eng.SeedFromString(req.State)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	info, err := dto.NewStateInfo(eng)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.SeedResponse{State: info})
}

// Inspect 把 query 帶入的 state（state= 或 token=）轉成三種表示回傳。
//
// 用途：格式互轉與校驗，不推進流水。
func (st *StateHandler) Inspect(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ss := &dto.StartState{
		StateStr:   q.URL.Query().Get("state"),
		StateToken: q.URL.Query().Get("token"),
	}
	if !ss.HasPayload() {
		httperr.Errs(w, errs.Domainf("state or token is required"))
		return
	}
	eng, err := ss.BuildEngine()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	info, err := dto.NewStateInfo(eng)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.SeedResponse{State: info})
}

// Jump 從起點切出 count 條互不重疊的平行流。
//
// 回應的第一條就是起點本身，之後每條都比前一條多跳 2^512 步。
func (st *StateHandler) Jump(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeJumpRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := req.Validate(st.maxJump); err != nil {
		httperr.Errs(w, err)
		return
	}

	eng, err := req.State.BuildEngine()
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	resp, err := dto.NewJumpResponse(eng.JumpVector(req.Count))
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
