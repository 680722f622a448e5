package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/chart"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/fragment"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/generation"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/kinship"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/layout"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the config and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different snapshots and options.
type Runner struct {
	Config *config.Config
	Logger *log.Logger
}

// NewRunner creates a runner. Nil arguments fall back to the built-in
// config and the default logger.
func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Config: cfg, Logger: logger}
}

// Execute runs the complete audit → partition → assign → layout pipeline.
func (r *Runner) Execute(ctx context.Context, s *kin.Snapshot, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScope, err, "invalid options")
	}
	if opts.RootID != "" && !s.HasPerson(opts.RootID) {
		return nil, errors.New(errors.ErrCodePersonNotFound, "root person %q not in snapshot", opts.RootID)
	}
	if opts.ReferenceID != "" && !s.HasPerson(opts.ReferenceID) {
		return nil, errors.New(errors.ErrCodePersonNotFound, "reference person %q not in snapshot", opts.ReferenceID)
	}

	adj := kin.BuildAdjacency(s)
	scope := kin.ResolveScope(s, adj, kin.ScopeOptions{
		HouseID:       opts.HouseID,
		IncludeCadets: opts.IncludeCadets,
		PersonIDs:     opts.PersonIDs,
	})
	scopeName := describeScope(opts)

	result := &Result{}
	result.Stats.PersonCount = scope.Len()

	// Stage 1: Audit
	observability.Pipeline().OnAuditStart(ctx, scopeName, scope.Len())
	auditStart := time.Now()
	result.Audit = validate.RunIntegrityCheck(s)
	result.Stats.AuditTime = time.Since(auditStart)
	observability.Pipeline().OnAuditComplete(ctx, scopeName, result.Audit.Healthy, result.Stats.AuditTime)

	r.Logger.Info("integrity audit",
		"healthy", result.Audit.Healthy,
		"cycles", len(result.Audit.Cycles),
		"duration", result.Stats.AuditTime)

	if opts.Strict && len(result.Audit.Cycles) > 0 {
		return nil, errors.New(errors.ErrCodeCircularAncestry,
			"snapshot contains %d ancestry cycle(s)", len(result.Audit.Cycles))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Partition
	observability.Pipeline().OnLayoutStart(ctx, scopeName, scope.Len())
	layoutStart := time.Now()
	result.Fragments = fragment.Detect(s, adj, scope)
	result.Stats.FragmentCount = len(result.Fragments.Fragments)

	// Stages 3 and 4: assign generations and lay out each fragment,
	// stacking fragments vertically with the configured gap.
	out := &chart.Chart{}
	cursorY := 0.0
	assignTotal := time.Duration(0)
	for i, frag := range result.Fragments.Fragments {
		fragScope := kin.ResolveScope(s, adj, kin.ScopeOptions{PersonIDs: frag.Members})

		rootOverride := ""
		if opts.RootID != "" && frag.Contains(opts.RootID) {
			rootOverride = opts.RootID
		}

		assignStart := time.Now()
		gens := generation.Assign(s, adj, fragScope, rootOverride)
		assignTotal += time.Since(assignStart)
		result.Generations = append(result.Generations, gens)
		if gens.Empty() {
			r.Logger.Warn("skipping fragment with no usable root", "fragment", i, "members", frag.Len())
			continue
		}

		res := layout.Compute(s, adj, gens, r.Config.Layout)
		if i > 0 {
			out.Separators = append(out.Separators, chart.Separator{
				Y:             cursorY - r.Config.Layout.FragmentGap/2,
				AboveFragment: i - 1,
				BelowFragment: i,
			})
		}
		r.appendFragment(out, s, res, i, cursorY)
		cursorY += res.Bounds.Height() + r.Config.Layout.FragmentGap

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	result.Stats.AssignTime = assignTotal
	for _, gap := range result.Fragments.Gaps {
		out.Connectors = append(out.Connectors, chart.Connector{
			ChildID:   gap.InsideID,
			ParentIDs: []string{gap.OutsideID},
			System:    chart.SystemLegitimate,
			Dashed:    true,
		})
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, scopeName, result.Stats.FragmentCount, result.Stats.LayoutTime, nil)

	r.Logger.Info("computed layout",
		"people", scope.Len(),
		"fragments", result.Stats.FragmentCount,
		"duration", result.Stats.LayoutTime)

	// Labels relative to the reference person, restricted to the scope.
	if opts.ReferenceID != "" {
		cls := kinship.New(s, adj, kinship.WithMaxDepth(r.Config.Kinship.MaxDepth))
		result.Labels = map[string]string{}
		for _, id := range scope.IDs() {
			if id == opts.ReferenceID {
				continue
			}
			if label := cls.Classify(opts.ReferenceID, id); label != "" {
				result.Labels[id] = label
				out.Labels = append(out.Labels, chart.Label{PersonID: id, Text: label})
				observability.Pipeline().OnClassify(ctx, opts.ReferenceID, id, label)
			}
		}
	}

	result.Chart = out
	return result, nil
}

// appendFragment copies one fragment's placements into the chart, shifted
// down to start at yOffset.
func (r *Runner) appendFragment(out *chart.Chart, s *kin.Snapshot, res layout.Result, frag int, yOffset float64) {
	geo := r.Config.Layout
	shift := yOffset - res.Bounds.MinY
	ids := make([]string, 0, len(res.Placements))
	for id := range res.Placements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := res.Placements[id]
		person, _ := s.Person(id)
		out.Cards = append(out.Cards, chart.Card{
			PersonID: id,
			Name:     person.DisplayName(),
			X:        p.X,
			Y:        p.Y + shift,
			Width:    geo.CardWidth,
			Height:   geo.CardHeight,
			Row:      p.Row,
			Fragment: frag,
		})
		if len(p.FromParents) > 0 {
			out.Connectors = append(out.Connectors, chart.Connector{
				ChildID:   id,
				ParentIDs: p.FromParents,
				System:    string(p.LineSystem),
				Offset:    chart.SystemOffset(string(p.LineSystem), geo.LineOffset),
			})
		}
	}
	grow(&out.Bounds, res.Bounds, shift)
}

func grow(b *chart.Rect, add layout.Bounds, shift float64) {
	if b.MinX == 0 && b.MaxX == 0 && b.MinY == 0 && b.MaxY == 0 {
		*b = chart.Rect{MinX: add.MinX, MinY: add.MinY + shift, MaxX: add.MaxX, MaxY: add.MaxY + shift}
		return
	}
	b.MinX = min(b.MinX, add.MinX)
	b.MinY = min(b.MinY, add.MinY+shift)
	b.MaxX = max(b.MaxX, add.MaxX)
	b.MaxY = max(b.MaxY, add.MaxY+shift)
}

func describeScope(opts Options) string {
	switch {
	case len(opts.PersonIDs) > 0:
		return fmt.Sprintf("%d explicit ids", len(opts.PersonIDs))
	case opts.HouseID != "":
		return opts.HouseID
	default:
		return "all"
	}
}
