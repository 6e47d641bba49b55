package engine

import "errors"

// fill drops a random tile into every empty cell of a fresh board.
func (e *Engine) fill() {
	for c := range e.grid.Coords() {
		if e.grid.at(c) != 0 {
			continue
		}
		e.spawn(c)
	}
	e.await(e.scan)
}

// spawn creates a tile at c and issues its drop animation. Caller holds mu.
func (e *Engine) spawn(c Coord) {
	t := e.tiles.create(e.randomColor(), c)
	e.grid.put(c, t.ID)
	e.stats.Created++
	e.emit(TileCreated{Tile: t.ID, At: c, Color: t.Color, Dropped: true, Done: e.completion()})
}

func (e *Engine) selectCell(c Coord) (Outcome, error) {
	if !e.grid.InBounds(c) {
		return OutcomeIgnored, outOfRange(c, e.cfg.Width, e.cfg.Height)
	}
	if e.locked || e.phase != PhaseIdle {
		return OutcomeIgnored, nil
	}

	id := e.grid.at(c)
	var g *Group
	if id != 0 && e.grid.groupableAt(c) {
		g = e.index.Of(e.tiles.get(id))
	}
	if g == nil {
		e.emit(SelectionDenied{At: c})
		return OutcomeDenied, nil
	}

	e.locked = true
	e.setPhase(PhaseSelecting)
	minX, maxX := g.Span()
	e.res = resolution{
		size:      g.Len(),
		minRow:    g.MinRow(),
		minX:      minX,
		maxX:      maxX,
		histogram: g.ColumnHistogram(),
	}
	e.stats.Resolutions++
	e.stats.LargestGroup = max(e.stats.LargestGroup, g.Len())
	e.log.Debug("resolve", "at", c, "color", g.Color, "size", g.Len(), "tier", g.Tier(), "span", [2]int{minX, maxX})

	e.destroy(g)
	return OutcomeAccepted, nil
}

// destroy clears every member of g from the board. The settle delay, not
// the destroy animations, gates compaction.
func (e *Engine) destroy(g *Group) {
	e.setPhase(PhaseDestroying)
	members := g.Members()
	e.index.Discard(g)
	for _, id := range members {
		t := e.tiles.get(id)
		e.grid.put(t.Pos, 0)
		e.grid.markGroupable(t.Pos, false)
		e.tiles.remove(id)
		e.stats.Destroyed++
		e.emit(TileDestroyed{Tile: t.ID, At: t.Pos, Color: t.Color, Done: once(func() {})})
	}
	e.emit(SettleRequested{Delay: e.cfg.SettleDelay, Done: e.completion()})
	e.await(e.compact)
}

// compact lets every tile in the resolved span fall onto the lowest free row
// at or above minRow.
func (e *Engine) compact() {
	e.setPhase(PhaseCompacting)
	h := e.cfg.Height
	for x := e.res.minX; x <= e.res.maxX; x++ {
		floor := e.res.minRow
		for y := e.res.minRow; y < h; y++ {
			from := C(x, y)
			id := e.grid.at(from)
			if id == 0 {
				continue
			}
			t := e.tiles.get(id)
			e.index.RemoveTile(t)
			e.grid.markGroupable(from, false)

			to := C(x, floor)
			floor++
			if to == from {
				continue
			}
			if e.grid.at(to) != 0 {
				invariant("compaction target %v holds tile %d while moving tile %d from %v", to, e.grid.at(to), id, from)
			}
			e.grid.put(from, 0)
			e.grid.put(to, id)
			t.Pos = to
			e.emit(TileMoved{Tile: id, From: from, To: to, Reason: MoveSlide, Done: e.completion()})
		}
	}
	e.await(e.refill)
}

// refill spawns one tile per vacated cell at the top of each column.
func (e *Engine) refill() {
	e.setPhase(PhaseRefilling)
	h := e.cfg.Height
	for x, n := range e.res.histogram {
		for y := h - n; y < h; y++ {
			c := C(x, y)
			if e.grid.at(c) != 0 {
				invariant("refill cell %v still holds tile %d", c, e.grid.at(c))
			}
			e.spawn(c)
		}
	}
	e.await(e.scan)
}

// scan rebuilds every group from scratch. Without a group the board is
// deadlocked and gets shuffled; otherwise input unlocks.
func (e *Engine) scan() {
	e.setPhase(PhaseScanning)
	e.grid.ResetGroupable()

	var res ScanResult
	err := e.index.Rebuild(func() error {
		var err error
		res, err = e.scanner.Scan(FullRegion(e.grid))
		return err
	})
	if err != nil {
		invariant("full scan: %v", err)
	}

	if !res.AnyGroupFound {
		e.shuffle()
		return
	}
	e.setPhase(PhaseIdle)
	e.locked = false
}

// shuffle permutes the board until it holds a match, or parks the engine in
// PhaseDeadlocked when no permutation can.
func (e *Engine) shuffle() {
	e.setPhase(PhaseShuffling)
	var groups []*Group
	for g := range e.index.Groups() {
		groups = append(groups, g)
	}
	for _, g := range groups {
		e.index.Disband(g)
	}

	plan, err := e.shuffler.Plan(e.grid, func(id TileID) Color { return e.tiles.get(id).Color })
	if err != nil {
		if !errors.Is(err, ErrUnresolvableDeadlock) {
			invariant("shuffle: %v", err)
		}
		e.log.Warn("board cannot be unlocked", "err", err)
		e.setPhase(PhaseDeadlocked)
		e.emit(DeadlockUnresolvable{Tiles: e.tiles.len()})
		return
	}

	e.stats.Shuffles++
	e.stats.ShuffleAttempts += plan.Attempts
	if plan.Fallback {
		e.stats.Fallbacks++
	}
	e.log.Debug("shuffle", "attempts", plan.Attempts, "fallback", plan.Fallback, "moves", plan.Len())

	for r := range plan.Steps() {
		e.emit(TileMoved{Tile: r.Tile, From: r.From, To: r.To, Reason: MoveShuffle, Done: e.completion()})
	}
	e.await(func() {
		plan.apply(e.grid, e.tiles)
		e.scan()
	})
}
