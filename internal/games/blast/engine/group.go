package engine

import (
	"iter"
	"maps"
	"math"
	"slices"
)

// Group is a set of same-coloured, 4-connected tiles. A group with fewer than
// two members never survives a mutation.
type Group struct {
	ID    GroupID
	Color Color

	members       []TileID
	countByColumn []int
	minRow        int
	tier          int
}

// Len returns the number of members.
func (g *Group) Len() int { return len(g.members) }

// Members returns a copy of the member handles in insertion order.
func (g *Group) Members() []TileID { return slices.Clone(g.members) }

// ColumnHistogram returns a copy of countByColumn: members per column.
func (g *Group) ColumnHistogram() []int { return slices.Clone(g.countByColumn) }

// MinRow returns the lowest row occupied by a member.
func (g *Group) MinRow() int { return g.minRow }

// Tier returns the presentation tier (0..3).
func (g *Group) Tier() int { return g.tier }

// Span returns the first and last columns with a nonzero histogram entry.
// Columns in between are part of the span even when the group skips them.
func (g *Group) Span() (minX, maxX int) {
	minX, maxX = -1, -1
	for x, n := range g.countByColumn {
		if n == 0 {
			continue
		}
		if minX == -1 {
			minX = x
		}
		maxX = x
	}
	return minX, maxX
}

// GroupIndex owns every active group and keeps tile back-references in sync.
type GroupIndex struct {
	width  int
	tierOf func(size int) int
	tiles  *tileArena
	groups map[GroupID]*Group
	nextID GroupID

	// notify is called whenever a tile's shown tier changes.
	notify func(t *Tile)
	muted  bool
}

func newGroupIndex(width int, tierOf func(int) int, tiles *tileArena, notify func(*Tile)) *GroupIndex {
	if notify == nil {
		notify = func(*Tile) {}
	}
	return &GroupIndex{
		width:  width,
		tierOf: tierOf,
		tiles:  tiles,
		groups: make(map[GroupID]*Group),
		notify: notify,
	}
}

// New creates an empty group. Its colour is taken from the first tile added.
func (ix *GroupIndex) New() *Group {
	ix.nextID++
	g := &Group{
		ID:            ix.nextID,
		countByColumn: make([]int, ix.width),
		minRow:        math.MaxInt,
	}
	ix.groups[g.ID] = g
	return g
}

// Get returns the group with the given id, or nil.
func (ix *GroupIndex) Get(id GroupID) *Group {
	if id == 0 {
		return nil
	}
	return ix.groups[id]
}

// Of returns the group a tile belongs to, or nil when idle.
func (ix *GroupIndex) Of(t *Tile) *Group {
	return ix.Get(t.Group)
}

// Len returns the number of active groups.
func (ix *GroupIndex) Len() int { return len(ix.groups) }

// Groups iterates active groups in creation order.
func (ix *GroupIndex) Groups() iter.Seq[*Group] {
	return func(yield func(*Group) bool) {
		for _, id := range slices.Sorted(maps.Keys(ix.groups)) {
			if !yield(ix.groups[id]) {
				return
			}
		}
	}
}

// AddTile adds t to g. Adding an existing member is a no-op. A tile that
// belongs to another group must be merged, not added.
func (ix *GroupIndex) AddTile(g *Group, t *Tile) {
	if t.Group == g.ID {
		return
	}
	if t.Group != 0 {
		invariant("tile %d at %v already in group %d, cannot add to %d", t.ID, t.Pos, t.Group, g.ID)
	}
	if len(g.members) > 0 && t.Color != g.Color {
		invariant("tile %d colour %v does not match group %d colour %v", t.ID, t.Color, g.ID, g.Color)
	}

	if t.Pos.Y < g.minRow {
		g.minRow = t.Pos.Y
	}
	g.Color = t.Color
	g.members = append(g.members, t.ID)
	g.countByColumn[t.Pos.X]++
	t.Group = g.ID

	if ix.retier(g) {
		ix.syncMembers(g)
		return
	}
	ix.sync(t, g.tier)
}

// RemoveTile detaches t from its group. When one member is left it is evicted
// to idle and the group disbanded.
func (ix *GroupIndex) RemoveTile(t *Tile) {
	g := ix.Get(t.Group)
	if g == nil {
		return
	}

	i := slices.Index(g.members, t.ID)
	if i < 0 {
		invariant("tile %d back-references group %d but is not a member", t.ID, g.ID)
	}
	g.members = slices.Delete(g.members, i, i+1)
	g.countByColumn[t.Pos.X]--
	t.Group = 0
	ix.sync(t, 0)

	switch len(g.members) {
	case 0:
		delete(ix.groups, g.ID)
		return
	case 1:
		last := ix.tiles.get(g.members[0])
		g.members = g.members[:0]
		g.countByColumn[last.Pos.X]--
		last.Group = 0
		ix.sync(last, 0)
		delete(ix.groups, g.ID)
		return
	}

	if t.Pos.Y == g.minRow {
		ix.recomputeMinRow(g)
	}
	if ix.retier(g) {
		ix.syncMembers(g)
	}
}

// Merge moves every member of src into dst and deletes src.
func (ix *GroupIndex) Merge(dst, src *Group) {
	if dst == src {
		return
	}
	moved := src.members
	delete(ix.groups, src.ID)
	for _, id := range moved {
		t := ix.tiles.get(id)
		t.Group = 0
		ix.AddTile(dst, t)
	}
}

// Disband breaks a group up without removing any tile; members become idle.
func (ix *GroupIndex) Disband(g *Group) {
	delete(ix.groups, g.ID)
	for _, id := range g.members {
		t := ix.tiles.get(id)
		t.Group = 0
		ix.sync(t, 0)
	}
	g.members = nil
}

// Discard drops a group whose tiles are being destroyed. No notifications.
func (ix *GroupIndex) Discard(g *Group) {
	delete(ix.groups, g.ID)
	for _, id := range g.members {
		if t := ix.tiles.get(id); t != nil {
			t.Group = 0
		}
	}
	g.members = nil
}

// Reset silently drops every group ahead of a full rebuild. Shown tiers are
// kept so the rebuild only notifies tiles whose tier actually changes.
func (ix *GroupIndex) Reset() {
	for _, g := range ix.groups {
		for _, id := range g.members {
			if t := ix.tiles.get(id); t != nil {
				t.Group = 0
			}
		}
	}
	clear(ix.groups)
}

// Rebuild drops every group, runs build with tier notifications held back and
// then brings each tile's shown tier in line with its group in one pass. A
// tile that ends up in the same tier it showed before is not notified.
func (ix *GroupIndex) Rebuild(build func() error) error {
	ix.Reset()
	ix.muted = true
	err := build()
	ix.muted = false
	for t := range ix.tiles.all() {
		tier := 0
		if g := ix.Of(t); g != nil {
			tier = g.tier
		}
		ix.sync(t, tier)
	}
	return err
}

func (ix *GroupIndex) retier(g *Group) bool {
	tier := ix.tierOf(len(g.members))
	if tier == g.tier {
		return false
	}
	g.tier = tier
	return true
}

func (ix *GroupIndex) recomputeMinRow(g *Group) {
	g.minRow = math.MaxInt
	for _, id := range g.members {
		if y := ix.tiles.get(id).Pos.Y; y < g.minRow {
			g.minRow = y
		}
	}
}

func (ix *GroupIndex) syncMembers(g *Group) {
	for _, id := range g.members {
		ix.sync(ix.tiles.get(id), g.tier)
	}
}

func (ix *GroupIndex) sync(t *Tile, tier int) {
	if ix.muted || t.ShownTier == tier {
		return
	}
	t.ShownTier = tier
	ix.notify(t)
}
