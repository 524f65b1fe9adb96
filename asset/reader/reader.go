// Package reader loads triangle meshes from asset files.
package reader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/bih/asset"
	"github.com/achilleasa/bih/mesh"
)

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported file format")
	ErrSyntax            = errors.New("reader: syntax error")
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read a mesh from a resource. Resources referenced by the mesh file
	// are fetched using ctx.
	Read(ctx context.Context, res *asset.Resource) (*mesh.Mesh, error)
}

// Read mesh from a local file or http(s) URL.
func ReadMesh(filename string) (*mesh.Mesh, error) {
	return ReadMeshWithContext(context.Background(), filename)
}

// Read mesh from a local file or http(s) URL; remote fetches are bound to ctx.
func ReadMeshWithContext(ctx context.Context, filename string) (*mesh.Mesh, error) {
	reader, err := forFile(filename)
	if err != nil {
		return nil, err
	}

	res, err := asset.NewResourceWithContext(ctx, filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(ctx, res)
}

// Select reader based on file extension.
func forFile(filename string) (Reader, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return newWavefrontReader(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
}
