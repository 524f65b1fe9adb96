package cmd

import (
	"errors"

	"github.com/achilleasa/bih/asset/reader"
	"github.com/achilleasa/bih/bih"
	"github.com/urfave/cli"
)

// Read the mesh named by the first command argument and build its tree.
func loadTree(ctx *cli.Context) (*bih.Tree, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing mesh file argument")
	}

	m, err := reader.ReadMesh(ctx.Args().First())
	if err != nil {
		return nil, err
	}

	tree, err := bih.NewTree(m, ctx.Int("max-tris"))
	if err != nil {
		return nil, err
	}

	tree.Construct()
	return tree, nil
}

// Build a BIH tree for a mesh and display its statistics.
func BuildTree(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	tree, err := loadTree(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("tree statistics:\n%s", tree.Stats())
	return nil
}
