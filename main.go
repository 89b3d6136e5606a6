package main

import (
	"os"

	"github.com/krzysiekprzekwas/maklowicz-map/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
