package reader

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/bih/asset"
	"github.com/achilleasa/bih/log"
	"github.com/achilleasa/bih/mesh"
	"github.com/achilleasa/bih/types"
)

// Nesting limit for "call" statements; guards against include cycles.
const maxCallDepth = 16

type wavefrontReader struct {
	logger log.Logger

	// Name of the first object/group; used as the mesh name.
	name string

	// Object and group names in the order they were declared.
	objects []string

	// Parsed vertex positions and the triangulated index list.
	vertexList []types.Vec3
	indices    []uint32

	// An error stack that provides additional error information when
	// obj files include other files.
	errStack []string
}

// Create a new wavefront obj reader.
func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger:     log.New("wavefront reader"),
		vertexList: make([]types.Vec3, 0),
		indices:    make([]uint32, 0),
		errStack:   make([]string, 0),
	}
}

// Read a wavefront obj file and merge all its objects into a single
// indexed triangle list.
func (r *wavefrontReader) Read(ctx context.Context, res *asset.Resource) (*mesh.Mesh, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(ctx, res, 0); err != nil {
		return nil, err
	}

	if len(r.indices) == 0 {
		r.logger.Warningf(`"%s" does not define any faces`, res.Path())
	}

	name := r.name
	if name == "" {
		name = "default"
	}

	r.logger.Noticef(
		"parsed %d vertices and %d triangles from %d object(s) in %d ms",
		len(r.vertexList), len(r.indices)/3, len(r.objects), time.Since(start).Nanoseconds()/1e6,
	)

	return &mesh.Mesh{
		Name:      name,
		Mode:      mesh.Triangles,
		Positions: r.vertexList,
		Indices:   r.indices,
	}, nil
}

// Generate an error that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, cause error) error {
	var stack string
	if len(r.errStack) != 0 {
		stack = "\n" + strings.Join(r.errStack, "\n")
	}
	return fmt.Errorf("[%s: %d] %w%s", file, line, cause, stack)
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object format.
func (r *wavefrontReader) parse(ctx context.Context, res *asset.Resource, depth int) error {
	var lineNum int = 0

	// Included files use 1-based indices relative to their own vertices.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, syntaxErrorf(`unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1))
			}
			if depth+1 > maxCallDepth {
				return r.emitError(res.Path(), lineNum, syntaxErrorf(`"call" nesting exceeds %d levels`, maxCallDepth))
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))

			incRes, err := asset.NewResourceWithContext(ctx, lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err)
			}

			err = r.parse(ctx, incRes, depth+1)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err)
			}
			r.vertexList = append(r.vertexList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, syntaxErrorf(`unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1))
			}
			if r.name == "" {
				r.name = lineTokens[1]
			}
			r.objects = append(r.objects, lineTokens[1])
		case "f":
			if err := r.parseFace(lineTokens, relVertexOffset); err != nil {
				return r.emitError(res.Path(), lineNum, err)
			}
		default:
			// Normals, tex coords, materials and smoothing groups do not
			// affect ray queries.
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, err)
	}

	return nil
}

// Parse face definition. Each face argument is comprised of 1, 2 or 3
// indices separated by a slash character:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Only the vertex index is used. Indices start from 1 and may be negative to
// indicate an offset off the end of the vertex list. Faces with more than 3
// vertices are triangulated as a fan around the first vertex.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset int) error {
	if len(lineTokens) < 4 {
		return syntaxErrorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	faceIndices := make([]uint32, len(lineTokens)-1)
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return syntaxErrorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return syntaxErrorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return syntaxErrorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		faceIndices[arg] = uint32(vOffset)
	}

	for i := 1; i < len(faceIndices)-1; i++ {
		r.indices = append(r.indices, faceIndices[0], faceIndices[i], faceIndices[i+1])
	}

	return nil
}

// Given an index for a face coord calculate the proper offset into the
// coord list. Wavefront format can also use negative indices to reference
// elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, syntaxErrorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, syntaxErrorf("%s", err.Error())
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

func syntaxErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
