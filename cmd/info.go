package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load and compile a scene, then print its geometry and material counts.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	var leafNodes int
	for _, node := range sc.BvhNodes {
		if node.IsLeaf() {
			leafNodes++
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.Append([]string{"Triangles", fmt.Sprintf("%d", len(sc.Triangles))})
	table.Append([]string{"BVH nodes", fmt.Sprintf("%d", len(sc.BvhNodes))})
	table.Append([]string{"BVH leaf nodes", fmt.Sprintf("%d", leafNodes)})
	table.Append([]string{"Materials", fmt.Sprintf("%d", sc.Materials.Count())})
	table.Render()

	fmt.Fprintf(os.Stdout, "scene %s\n%s", ctx.Args().First(), buf.String())
	return nil
}
