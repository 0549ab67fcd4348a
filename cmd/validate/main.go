package main

import "github.com/zintix-labs/pqlab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeValidation, cfg.pprofmode)
}
