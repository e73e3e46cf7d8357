// Command pruneckpts deletes old model checkpoints beyond a
// retention limit.
package main

import (
	"flag"

	"github.com/unixpickle/essentials"

	hyperdata "github.com/royakabiri/hypernym-discovery"
)

func main() {
	var dir string
	var prefix string
	var keep int
	var byMTime bool
	flag.StringVar(&dir, "dir", "", "checkpoint output directory")
	flag.StringVar(&prefix, "prefix", "checkpoint", "checkpoint directory prefix")
	flag.IntVar(&keep, "keep", 0, "number of checkpoints to retain")
	flag.BoolVar(&byMTime, "mtime", false, "order checkpoints by modification time")
	flag.Parse()

	if dir == "" || keep <= 0 {
		essentials.Die("Required flags: -dir and -keep. See -help.")
	}
	if err := hyperdata.PruneCheckpoints(dir, prefix, keep, byMTime); err != nil {
		essentials.Die(err)
	}
}
