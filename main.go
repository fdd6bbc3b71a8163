package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/wubugui/epsilon/cmd"
	"github.com/wubugui/epsilon/log"
)

var logger = log.New("epsilon")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "frame height",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.IntFlag{
			Name:  "seed",
			Value: 1,
			Usage: "base seed for the sample generators",
		},
		cli.IntFlag{
			Name:  "num-tracers",
			Value: 1,
			Usage: "number of cpu tracers to attach",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "worker goroutines per tracer; 0 uses all cores",
		},
	}

	app := cli.NewApp()
	app.Name = "epsilon"
	app.Usage = "render scenes using spectral path tracing"
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
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:      "frame",
					Usage:     "render single frame",
					ArgsUsage: "scene_file.obj",
					Flags: append(renderFlags,
						cli.IntFlag{
							Name:  "spp",
							Value: 16,
							Usage: "samples per pixel",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:      "interactive",
					Usage:     "render continuously refining view of the scene",
					ArgsUsage: "scene_file.obj",
					Flags:     renderFlags,
					Action:    cmd.RenderInteractive,
				},
			},
		},
		{
			Name:      "info",
			Usage:     "print geometry and material statistics for a compiled scene",
			ArgsUsage: "scene_file.obj",
			Action:    cmd.SceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
