// Package main is the entry point of the zantaku player.
package main

import (
	"github.com/samber/lo"
	"github.com/zantaku/Zantaku-sub000/cmd"
	"github.com/zantaku/Zantaku-sub000/config"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/network"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	network.Setup()

	cmd.Execute()
}
