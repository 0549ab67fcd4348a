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

// seedtool 管理 generator state 檔：取種、檢視、切平行流。
//
// 用法：
//
//	seedtool -mode gen -out seed.txt            產生一顆新種並存檔
//	seedtool -mode inspect -state seed.txt      顯示 state 的 token 與指紋
//	seedtool -mode jump -state seed.txt -count 8 -out worker
//	    從起點切 8 條平行流，寫成 worker_0.txt ... worker_7.txt
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zintix-labs/pqlab/corefmt"
	"github.com/zintix-labs/pqlab/sdk/core"
)

type toolConfig struct {
	mode  string
	state string
	out   string
	count int
}

func main() {
	cfg := new(toolConfig)
	flag.StringVar(&cfg.mode, "mode", "gen", "gen|inspect|jump")
	flag.StringVar(&cfg.state, "state", "", "input state file")
	flag.StringVar(&cfg.out, "out", "", "output file (gen) or prefix (jump)")
	flag.IntVar(&cfg.count, "count", 4, "number of parallel streams (jump)")
	flag.Parse()

	switch cfg.mode {
	case "gen":
		runGen(cfg)
	case "inspect":
		runInspect(cfg)
	case "jump":
		runJump(cfg)
	default:
		log.Fatalf("unknown mode %q", cfg.mode)
	}
}

func runGen(cfg *toolConfig) {
	eng, err := core.NewEngine()
	if err != nil {
		log.Fatal(err)
	}
	state := eng.GetState()
	if cfg.out == "" {
		fmt.Println(state)
		return
	}
	if err := eng.WriteState(cfg.out); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (fp=%s)\n", cfg.out, corefmt.Fingerprint(state))
}

func runInspect(cfg *toolConfig) {
	eng := loadEngine(cfg)
	state := eng.GetState()
	words, pos := eng.Source().State()

	fmt.Println("state :", state)
	fmt.Println("token :", corefmt.PackStateToken(words, pos))
	fmt.Println("fp    :", corefmt.Fingerprint(state))
}

func runJump(cfg *toolConfig) {
	if cfg.count < 1 {
		log.Fatal("count must > 0")
	}
	eng := loadEngine(cfg)
	states := eng.JumpVector(cfg.count)

	if cfg.out == "" {
		for i, s := range states {
			fmt.Printf("stream %d (fp=%s):\n%s\n", i, corefmt.Fingerprint(s), s)
		}
		return
	}
	for i, s := range states {
		name := fmt.Sprintf("%s_%d.txt", cfg.out, i)
		if err := writeStateFile(name, s); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (fp=%s)\n", name, corefmt.Fingerprint(s))
	}
}

func loadEngine(cfg *toolConfig) *core.Engine {
	if cfg.state == "" {
		log.Fatal("-state is required for this mode")
	}
	eng := core.NewEngineDeferred()
	if err := eng.SeedFromFile(cfg.state); err != nil {
		log.Fatal(err)
	}
	return eng
}

func writeStateFile(path, state string) error {
	return os.WriteFile(path, []byte(state+"\n"), 0o644)
}
