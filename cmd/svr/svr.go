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

package main

import (
	"flag"
	"log/slog"

	"github.com/zintix-labs/pqlab"
	"github.com/zintix-labs/pqlab/server"
	"github.com/zintix-labs/pqlab/server/logger"
	"github.com/zintix-labs/pqlab/server/netsvr"
	"github.com/zintix-labs/pqlab/server/svrcfg"
)

// Lab server entrypoint: serves the sampling API with the builtin
// distribution catalog. For production deployments run ModeProd.
func main() {
	cfg := loadConfigFromFlags()

	sCfg := &svrcfg.SvrCfg{
		Log:        cfg.log,
		MaxSampleN: cfg.MaxSampleN,
		MaxJumpN:   cfg.MaxJumpN,
		Lab:        pqlab.New(),
	}
	if cfg.Addr == "" {
		server.Run(sCfg)
		return
	}
	server.RunWithSvr(sCfg, netsvr.NewChiServer(cfg.Addr))
}

type svrConfig struct {
	LogMode    string
	Addr       string
	MaxSampleN int
	MaxJumpN   int

	log *slog.Logger
}

func loadConfigFromFlags() *svrConfig {
	cfg := new(svrConfig)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.Addr, "addr", "", "listen address (empty = builtin default)")
	flag.IntVar(&cfg.MaxSampleN, "max-n", 1<<20, "per-request sample count limit")
	flag.IntVar(&cfg.MaxJumpN, "max-jump", 1<<10, "per-request jump stream limit")

	flag.Parse()

	cfg.log, _ = logger.NewAsync(4096, cfg.norm())
	return cfg
}

func (cfg *svrConfig) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
