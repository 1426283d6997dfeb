package main

import (
	"github.com/alecthomas/kong"

	"github.com/lepinkainen/videodedup/cmd"
	"github.com/lepinkainen/videodedup/config"
	"github.com/lepinkainen/videodedup/logging"
	"github.com/lepinkainen/videodedup/types"
)

var Version = "dev"

type CLI struct {
	Verbose    bool   `help:"Enable debug logging" short:"v"`
	ConfigFile string `help:"Path to config file" name:"config" type:"path"`

	Dedupe   cmd.DedupeCmd   `cmd:"" help:"Detect near-duplicate videos in a directory"`
	Compare  cmd.CompareCmd  `cmd:"" help:"Score the similarity of two video files"`
	Features cmd.FeaturesCmd `cmd:"" help:"Show the extracted feature record for video files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("videodedup"),
		kong.Description("Find perceptually duplicate videos despite differing container, bitrate or filename."),
	)

	logging.Init(cli.Verbose)

	cfg, err := config.Load(cli.ConfigFile)
	ctx.FatalIfErrorf(err)

	appCtx := &types.AppContext{Version: Version, Config: cfg}
	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
