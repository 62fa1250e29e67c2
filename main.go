package main

import (
	_ "net/http/pprof"
	"os"

	"link_auditor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
