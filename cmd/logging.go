package cmd

import (
	"github.com/achilleasa/bih/log"
	"github.com/urfave/cli"
)

var logger = log.New("bih")

// Apply the verbosity requested by the global flags. The -v/-vv switches
// take precedence over --log-level.
func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return nil
}
