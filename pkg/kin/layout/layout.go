// Package layout computes 2D coordinates for one fragment's people: a
// bottom-up block-width pass so descendant subtrees reserve enough room,
// then a top-down centering pass that stacks generations vertically and
// keeps spouses adjacent.
package layout

import (
	"sort"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/generation"
)

// LineSystem tags which connector system links a child to its parents, so
// the renderer can offset parallel lines instead of overdrawing them.
type LineSystem string

// Connector systems per child.
const (
	LineLegitimate    LineSystem = "legitimate"
	LineBastardSingle LineSystem = "bastard-single"
	LineBastardDual   LineSystem = "bastard-dual"
	LineAdopted       LineSystem = "adopted"
)

// Placement is the computed geometry for one person. X/Y is the card's
// top-left corner; BlockWidth and BlockCenterX describe the horizontal span
// reserved for the person's whole subtree.
type Placement struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	BlockWidth   float64    `json:"blockWidth"`
	BlockCenterX float64    `json:"blockCenterX"`
	Row          int        `json:"row"`
	LineSystem   LineSystem `json:"lineSystem,omitempty"`
	FromParents  []string   `json:"fromParents,omitempty"`
}

// Bounds is the axis-aligned extent of a laid-out fragment.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Result holds the placements for one fragment.
type Result struct {
	Placements map[string]Placement `json:"placements"`
	Bounds     Bounds               `json:"bounds"`
}

// unit is one horizontal slot: a person, or a couple sharing a row. The
// anchor is the partner whose parents attach the slot to the tree above.
type unit struct {
	anchor   string
	spouse   string // "" for singles
	row      int
	width    float64
	children []*unit
	placed   bool
}

func (u *unit) members() []string {
	if u.spouse == "" {
		return []string{u.anchor}
	}
	return []string{u.anchor, u.spouse}
}

type engine struct {
	s     *kin.Snapshot
	adj   *kin.Adjacency
	gens  generation.Result
	geo   config.LayoutConfig
	units map[string]*unit // member id -> unit
	// positions memoizes primogeniture paths; fresh per Compute call.
	positions map[string][]int
	visiting  map[string]bool
	out       map[string]Placement
}

// Compute lays out one fragment. gens must be the generation assignment for
// exactly that fragment's members. The result is empty when gens is.
func Compute(s *kin.Snapshot, adj *kin.Adjacency, gens generation.Result, geo config.LayoutConfig) Result {
	if gens.Empty() {
		return Result{Placements: map[string]Placement{}}
	}
	e := &engine{
		s:         s,
		adj:       adj,
		gens:      gens,
		geo:       geo,
		units:     map[string]*unit{},
		positions: map[string][]int{},
		visiting:  map[string]bool{},
		out:       map[string]Placement{},
	}
	roots := e.buildUnits()
	e.measure(roots)
	e.place(roots)
	return Result{Placements: e.out, Bounds: e.bounds()}
}

// buildUnits groups each row into couple slots, wires child units under the
// unit holding their attachment parent, and returns the top row's units plus
// any unit no parent claims (connected only through a marriage below).
func (e *engine) buildUnits() []*unit {
	var all []*unit
	for row, ids := range e.gens.Generations {
		for _, id := range ids {
			if e.units[id] != nil {
				continue
			}
			u := &unit{anchor: id, row: row}
			if sp := e.adj.SpouseOf(id); sp != "" && e.inFragment(sp) && e.gens.Index[sp] == row && e.units[sp] == nil {
				u.spouse = sp
			}
			// The partner with in-fragment parents anchors the slot so the
			// couple hangs under the blood line.
			if u.spouse != "" && len(e.fragmentParents(u.anchor)) == 0 && len(e.fragmentParents(u.spouse)) > 0 {
				u.anchor, u.spouse = u.spouse, u.anchor
			}
			e.units[u.anchor] = u
			if u.spouse != "" {
				e.units[u.spouse] = u
			}
			all = append(all, u)
		}
	}

	var roots []*unit
	for _, u := range all {
		parents := e.fragmentParents(u.anchor)
		if len(parents) == 0 {
			roots = append(roots, u)
			continue
		}
		parent := e.units[parents[0]]
		if parent == nil || parent == u {
			roots = append(roots, u)
			continue
		}
		parent.children = append(parent.children, u)
	}
	for _, u := range all {
		e.orderChildren(u)
	}
	return roots
}

// fragmentParents returns the lineal parents of id that sit in an earlier
// row of this fragment, in record order.
func (e *engine) fragmentParents(id string) []string {
	var out []string
	for _, p := range e.adj.ParentsOf(id) {
		if e.inFragment(p) && e.gens.Index[p] < e.gens.Index[id] {
			out = append(out, p)
		}
	}
	return out
}

func (e *engine) inFragment(id string) bool {
	_, ok := e.gens.Index[id]
	return ok
}

// orderChildren sorts a unit's child slots in primogeniture order: slots
// stay grouped by the child's first recorded parent, groups follow that
// parent's own birth-order position up the line, and birth date breaks ties
// inside a group.
func (e *engine) orderChildren(u *unit) {
	sort.SliceStable(u.children, func(i, j int) bool {
		a, b := u.children[i], u.children[j]
		pa, pb := firstOrEmpty(e.fragmentParents(a.anchor)), firstOrEmpty(e.fragmentParents(b.anchor))
		if pa != pb {
			if c := comparePaths(e.position(pa), e.position(pb)); c != 0 {
				return c < 0
			}
			return pa < pb
		}
		ba, _ := e.s.Person(a.anchor)
		bb, _ := e.s.Person(b.anchor)
		return ba.Birth.Compare(bb.Birth) < 0
	})
}

// position returns id's primogeniture path: the chain of birth-order indices
// from the fragment root down to id. Cycles resolve to the path gathered so
// far.
func (e *engine) position(id string) []int {
	if id == "" || !e.inFragment(id) {
		return nil
	}
	if p, ok := e.positions[id]; ok {
		return p
	}
	if e.visiting[id] {
		return nil
	}
	e.visiting[id] = true
	defer delete(e.visiting, id)

	parents := e.fragmentParents(id)
	if len(parents) == 0 {
		e.positions[id] = []int{}
		return e.positions[id]
	}
	siblings := e.birthOrderedChildren(parents[0])
	idx := 0
	for i, sib := range siblings {
		if sib == id {
			idx = i
			break
		}
	}
	path := append(append([]int{}, e.position(parents[0])...), idx)
	e.positions[id] = path
	return path
}

func (e *engine) birthOrderedChildren(parentID string) []string {
	kids := make([]string, 0, 4)
	for _, c := range e.adj.ChildrenOf(parentID) {
		if e.inFragment(c) {
			kids = append(kids, c)
		}
	}
	sort.SliceStable(kids, func(i, j int) bool {
		a, _ := e.s.Person(kids[i])
		b, _ := e.s.Person(kids[j])
		return a.Birth.Compare(b.Birth) < 0
	})
	return kids
}

func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// measure runs the bottom-up width pass.
func (e *engine) measure(roots []*unit) {
	for _, u := range roots {
		e.measureUnit(u)
	}
}

func (e *engine) measureUnit(u *unit) float64 {
	own := e.geo.CardWidth
	if u.spouse != "" {
		own += e.geo.SpouseGap + e.geo.CardWidth
	}
	if len(u.children) == 0 {
		u.width = own
		return u.width
	}
	total := 0.0
	for i, c := range u.children {
		if i > 0 {
			total += e.childGap(u.children[i-1], c)
		}
		total += e.measureUnit(c)
	}
	u.width = max(own, total)
	return u.width
}

// childGap picks the spacing before a sibling slot: the wider branch gap
// when either neighbour carries descendants, the tight sibling gap
// otherwise.
func (e *engine) childGap(left, right *unit) float64 {
	if len(left.children) > 0 || len(right.children) > 0 {
		return e.geo.BranchGap
	}
	return e.geo.SiblingGap
}

// place runs the top-down position pass. The root row is centered on the
// configured anchor x; unattached lower units are appended after their
// parentless peers.
func (e *engine) place(roots []*unit) {
	total := 0.0
	for i, u := range roots {
		if i > 0 {
			total += e.geo.BranchGap
		}
		total += u.width
	}
	cursor := e.geo.AnchorX - total/2
	for i, u := range roots {
		if i > 0 {
			cursor += e.geo.BranchGap
		}
		e.placeUnit(u, cursor)
		cursor += u.width
	}
}

func (e *engine) placeUnit(u *unit, left float64) {
	if u.placed {
		return
	}
	u.placed = true

	center := left + u.width/2
	y := float64(u.row) * (e.geo.CardHeight + e.geo.GenerationSpacing)

	if u.spouse == "" {
		e.emit(u.anchor, center-e.geo.CardWidth/2, y, u, center)
	} else {
		coupleWidth := 2*e.geo.CardWidth + e.geo.SpouseGap
		e.emit(u.anchor, center-coupleWidth/2, y, u, center)
		spouseX := center + coupleWidth/2 - e.geo.CardWidth
		e.emit(u.spouse, spouseX, y, u, spouseX+e.geo.CardWidth/2)
	}

	if len(u.children) == 0 {
		return
	}
	total := 0.0
	for i, c := range u.children {
		if i > 0 {
			total += e.childGap(u.children[i-1], c)
		}
		total += c.width
	}
	cursor := center - total/2
	for i, c := range u.children {
		if i > 0 {
			cursor += e.childGap(u.children[i-1], c)
		}
		e.placeUnit(c, cursor)
		cursor += c.width
	}
}

// emit records one card. The anchor carries the unit's block geometry; the
// married-in partner only spans their own card.
func (e *engine) emit(id string, x, y float64, u *unit, center float64) {
	system, from := e.lineSystem(id)
	p := Placement{
		X:            x,
		Y:            y,
		BlockWidth:   u.width,
		BlockCenterX: center,
		Row:          u.row,
		LineSystem:   system,
		FromParents:  from,
	}
	if id != u.anchor {
		p.BlockWidth = e.geo.CardWidth
	}
	e.out[id] = p
}

// lineSystem classifies the connector linking id to its in-fragment lineal
// parents. A bastard whose recorded parents are both members of one couple
// gets the dual system; adoption wins over bastardy when both apply.
func (e *engine) lineSystem(id string) (LineSystem, []string) {
	parents := e.fragmentParents(id)
	if len(parents) == 0 {
		return "", nil
	}
	adopted := false
	for _, p := range parents {
		if edge, ok := e.adj.ParentEdgeBetween(p, id); ok && edge.Kind == kin.ParentAdoptive {
			adopted = true
		}
	}
	person, _ := e.s.Person(id)
	switch {
	case adopted || person.Legitimacy == kin.Adopted:
		return LineAdopted, parents
	case person.Legitimacy == kin.Bastard:
		if len(parents) >= 2 && e.units[parents[0]] == e.units[parents[1]] {
			return LineBastardDual, parents
		}
		return LineBastardSingle, parents
	default:
		return LineLegitimate, parents
	}
}

func (e *engine) bounds() Bounds {
	first := true
	var b Bounds
	for _, p := range e.out {
		if first {
			b = Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X + e.geo.CardWidth, MaxY: p.Y + e.geo.CardHeight}
			first = false
			continue
		}
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X+e.geo.CardWidth)
		b.MaxY = max(b.MaxY, p.Y+e.geo.CardHeight)
	}
	return b
}

func firstOrEmpty(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
