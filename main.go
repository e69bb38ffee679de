// Package main is the entry point for the matchup CLI.
package main

import (
	"github.com/puckline/matchup/cmd"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
