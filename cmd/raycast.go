package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/achilleasa/bih/query"
	"github.com/achilleasa/bih/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Cast rays from the command line or a batch file against a mesh.
func Raycast(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	batch, err := batchFromFlags(ctx)
	if err != nil {
		return err
	}

	tree, err := loadTree(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	outcomes, err := query.Run(runCtx, tree, batch.WorldBound(tree), batch, ctx.Int("workers"), ctx.Bool("brute"))
	if err != nil {
		return err
	}

	logger.Noticef("ray cast results:\n%s", renderOutcomes(outcomes))
	return nil
}

// Load the batch file passed via --batch or assemble a single ray batch
// from the --origin, --dir and --limit flags.
func batchFromFlags(ctx *cli.Context) (*query.Batch, error) {
	if path := ctx.String("batch"); path != "" {
		return query.LoadFile(path)
	}

	if ctx.String("dir") == "" {
		return nil, errors.New("either --batch or --dir must be specified")
	}

	origin, err := parseVec3(ctx.String("origin"))
	if err != nil {
		return nil, fmt.Errorf("invalid --origin: %w", err)
	}
	dir, err := parseVec3(ctx.String("dir"))
	if err != nil {
		return nil, fmt.Errorf("invalid --dir: %w", err)
	}

	batch := &query.Batch{
		Rays: []query.Ray{{
			Origin:    origin,
			Direction: dir,
			Limit:     float32(ctx.Float64("limit")),
		}},
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return batch, nil
}

// Parse a comma separated "x,y,z" vector.
func parseVec3(s string) (types.Vec3, error) {
	var v types.Vec3
	tokens := strings.Split(s, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("expected 3 comma separated components; got %d", len(tokens))
	}

	for i, tok := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func renderOutcomes(outcomes []query.Outcome) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Ray", "Origin", "Direction", "Hits", "Triangle", "Distance", "Contact point", "Normal"})

	hitCount := 0
	for _, out := range outcomes {
		row := []string{
			fmt.Sprintf("%d", out.Index),
			fmtVec3(out.Ray.Origin),
			fmtVec3(out.Ray.Direction),
			fmt.Sprintf("%d", len(out.Hits)),
			"-", "-", "-", "-",
		}
		if hit, ok := out.Closest(); ok {
			hitCount++
			row[4] = fmt.Sprintf("%d", hit.TriangleIndex)
			row[5] = fmt.Sprintf("%.4f", hit.Distance)
			row[6] = fmtVec3(hit.ContactPoint)
			row[7] = fmtVec3(hit.ContactNormal)
		}
		table.Append(row)
	}
	table.SetFooter([]string{"", "", "", "", "", "", "RAYS HIT", fmt.Sprintf("%d / %d", hitCount, len(outcomes))})

	table.Render()
	return buf.String()
}

func fmtVec3(v types.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
