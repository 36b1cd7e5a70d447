package main

import (
	"os"

	huddlecmder "github.com/papercomputeco/huddle/cmd/huddle"
)

func main() {
	cmd := huddlecmder.NewHuddleCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
