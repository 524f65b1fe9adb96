package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/bih/bih"
	"github.com/achilleasa/bih/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	maxTrisFlag := cli.IntFlag{
		Name:   "max-tris",
		Value:  bih.DefaultMaxTrisPerNode,
		Usage:  "max number of triangles in a leaf node",
		EnvVar: "BIH_MAX_TRIS",
	}

	app := cli.NewApp()
	app.Name = "bih"
	app.Usage = "build bounding interval hierarchies and run ray queries against triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "BIH_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BIH tree for a mesh and display tree statistics",
			Description: `
Parse a mesh from a wavefront obj file and partition its triangles into a
bounding interval hierarchy.`,
			ArgsUsage: "mesh.obj",
			Flags:     []cli.Flag{maxTrisFlag},
			Action:    cmd.BuildTree,
		},
		{
			Name:  "raycast",
			Usage: "cast rays against a mesh",
			Description: `
Cast a single ray defined by the --origin, --dir and --limit flags or a batch
of rays loaded from a YAML file. Batch files have the following format:

  transform:
    translate: [0, 0, 0]
    rotate: [0, 0, 0]  # yaw, pitch, roll in degrees
    scale: [1, 1, 1]
  bound: box           # or sphere
  rays:
    - origin: [0, 0, 10]
      direction: [0, 0, -1]
      limit: 100       # optional`,
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				maxTrisFlag,
				cli.StringFlag{
					Name:  "origin",
					Value: "0,0,0",
					Usage: "ray origin as x,y,z",
				},
				cli.StringFlag{
					Name:  "dir",
					Usage: "ray direction as x,y,z",
				},
				cli.Float64Flag{
					Name:  "limit",
					Usage: "max collision distance; 0 for unlimited",
				},
				cli.StringFlag{
					Name:  "batch, b",
					Usage: "YAML file with the rays to cast",
				},
				cli.BoolFlag{
					Name:  "brute",
					Usage: "test every triangle instead of traversing the tree",
				},
				cli.IntFlag{
					Name:   "workers, w",
					Usage:  "number of concurrent query workers; 0 uses all CPUs",
					EnvVar: "BIH_WORKERS",
				},
			},
			Action: cmd.Raycast,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
