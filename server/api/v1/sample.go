package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/pqlab"
	"github.com/zintix-labs/pqlab/dto"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/server/httperr"
	"github.com/zintix-labs/pqlab/server/svrcfg"
)

type SampleHandler struct {
	lab  *pqlab.Lab
	maxN int
}

func NewSampleHandler(sc *svrcfg.SvrCfg) (*SampleHandler, error) {
	if sc == nil || sc.Lab == nil {
		return nil, errs.Internalf("server config with lab required")
	}
	return &SampleHandler{lab: sc.Lab, maxN: sc.MaxSampleN}, nil
}

// Sample 執行一次抽樣。
//
// GET 用 query string（dist/n/bins/report/raw + p_ 前綴參數），POST 用 JSON body。
// 回應一律帶 Start/After state：Start 可重播本批樣本，After 可接續流水。
func (sh *SampleHandler) Sample(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeSampleRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := req.Validate(sh.maxN); err != nil {
		httperr.Errs(w, err)
		return
	}

	eng, err := req.State.BuildEngine()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	start, err := dto.NewStateInfo(eng)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	res, err := sh.lab.Run(eng, pqlab.RunSpec{
		Dist:   req.Dist,
		Params: req.Params,
		N:      req.N,
		Bins:   req.Bins,
		Report: req.Report,
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	after, err := dto.NewStateInfo(eng)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	resp := dto.SampleResponse{
		Dist:   req.Dist,
		N:      req.N,
		Report: res.Report,
		State:  dto.SampleState{Start: start, After: after},
		UsedMs: float64(res.Used.Microseconds()) / 1000.0,
	}
	if req.Raw {
		resp.Samples = res.Samples
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Dists 列出目錄內的分布與各自的參數。
func (sh *SampleHandler) Dists(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := dto.DistListResponse{Dists: sh.lab.Summaries()}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
