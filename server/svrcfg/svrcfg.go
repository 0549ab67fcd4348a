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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/pqlab"
	"github.com/zintix-labs/pqlab/errs"
	"github.com/zintix-labs/pqlab/server/logger"
)

type SvrCfg struct {
	Log        *slog.Logger
	MaxSampleN int // 單次 /v1/sample 的樣本數上限
	MaxJumpN   int // 單次 /v1/jump 的平行流數上限
	Lab        *pqlab.Lab
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.Internalf("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 預設上限：抽太大包的請求應走 CLI，不該打 API。
	if sc.MaxSampleN <= 0 {
		sc.MaxSampleN = 1 << 20
	}
	if sc.MaxJumpN <= 0 {
		sc.MaxJumpN = 1 << 10
	}
	if sc.Lab == nil {
		return errs.Internalf("lab is required")
	}
	return nil
}
