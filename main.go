// Command issuelens charts descriptive analytics over issue tracker records.
package main

import (
	"os"

	"github.com/huangsam/issuelens/cmd"
	"github.com/huangsam/issuelens/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.Logger().WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
