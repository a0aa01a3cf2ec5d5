package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/paw-chain/paw-clmm/cmd/clmmd/cmd"
)

func main() {
	rootCmd, closeApp := cmd.NewRootCmd()

	err := errors.Join(rootCmd.Execute(), closeApp())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
