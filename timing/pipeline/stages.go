package pipeline

import "log"

// stage is one step of a cycle.
type stage struct {
	name string
	run  func() error
}

// stageOrder lists the stages in the order they are evaluated every cycle.
func (p *Pipeline) stageOrder() []stage {
	return []stage{
		{name: "retire", run: p.retire},
		{name: "broadcast", run: p.broadcast},
		{name: "execute", run: p.startExecution},
		{name: "issue", run: p.admitToStations},
		{name: "fetch", run: p.fetch},
	}
}

// retire consumes the instruction broadcast in the previous cycle. Its
// destinations stop being pending and every waiting operand it produces
// becomes available.
func (p *Pipeline) retire() error {
	if !p.bus.Busy() {
		return nil
	}

	rec := p.arena.Get(p.bus.Holder())

	p.mapTable.ClearDestinations(rec)
	p.intStations.Wakeup(p.arena, rec.Tag)
	p.fpStations.Wakeup(p.arena, rec.Tag)
	p.bus.Clear()

	p.complete(rec)

	return nil
}

// broadcast selects the oldest completed instruction and puts it on the bus.
// Completed stores never use the bus; they free their unit and retire
// immediately.
func (p *Pipeline) broadcast() error {
	p.arbiter.reset()

	p.collectCompleted(p.intUnits)
	p.collectCompleted(p.fpUnits)

	winner, ok := p.arbiter.winner()
	if !ok {
		return nil
	}

	p.stats.BroadcastConflicts += uint64(len(p.arbiter.candidates) - 1)

	rec := p.arena.Get(winner.tag)
	p.releaseExecution(winner.pool, rec)
	rec.Timing.BroadcastCycle = p.cycle
	p.bus.Drive(rec.Tag)
	p.stats.Broadcasts++
	if p.latencyTable.IsLoadOp(rec.Inst) {
		p.stats.Loads++
	}

	p.invoke(HookPosBroadcast, rec)

	return nil
}

func (p *Pipeline) collectCompleted(pool *UnitPool) {
	for _, tag := range pool.Tags() {
		rec := p.arena.Get(tag)
		if !pool.Completed(rec, p.cycle) {
			continue
		}

		if p.latencyTable.IsStoreOp(rec.Inst) {
			p.releaseExecution(pool, rec)
			p.stats.Stores++
			p.complete(rec)
			continue
		}

		p.arbiter.offer(tag, pool)
	}
}

// releaseExecution frees the unit of a finished instruction, and its
// reservation station when stations are held until completion.
func (p *Pipeline) releaseExecution(pool *UnitPool, rec *Record) {
	if !pool.Release(rec.Tag) {
		log.Panicf("%s: instruction %d is not on a unit", pool.Name(), rec.Tag)
	}

	if p.config.StationRelease != ReleaseAtBroadcast {
		return
	}

	stations := p.Stations(rec.Unit)
	if stations == nil || !stations.Release(rec.Tag) {
		log.Panicf("instruction %d finished without a reservation station",
			rec.Tag)
	}
}

// startExecution fills every idle unit with the oldest ready instruction of
// its class.
func (p *Pipeline) startExecution() error {
	p.startClass(p.intStations, p.intUnits)
	p.startClass(p.fpStations, p.fpUnits)
	return nil
}

func (p *Pipeline) startClass(stations *StationPool, units *UnitPool) {
	for free := units.Free(); free > 0; free-- {
		tag, ok := stations.SelectReadyOldest(p.arena)
		if !ok {
			return
		}

		rec := p.arena.Get(tag)
		if !units.TryStart(rec, p.cycle) {
			log.Panicf("%s: no idle unit although %d reported free",
				units.Name(), free)
		}

		if p.config.StationRelease == ReleaseAtIssue {
			stations.Release(tag)
		}

		p.invoke(HookPosExecute, rec)
	}
}

// admitToStations moves the queue head into a reservation station. Control
// instructions leave the queue and retire without executing. A head that
// finds its pool full stays and blocks the queue.
func (p *Pipeline) admitToStations() error {
	tag, ok := p.queue.Head()
	if !ok {
		return nil
	}

	rec := p.arena.Get(tag)

	if p.latencyTable.IsBranchOp(rec.Inst) {
		p.queue.Dequeue()
		p.stats.Controls++
		p.complete(rec)
		return nil
	}

	stations := p.Stations(rec.Unit)
	if stations == nil {
		return &ClassError{Index: uint64(rec.Tag), Class: rec.Inst.Class}
	}

	if stations.Full() {
		p.stats.StationFullStalls++
		return nil
	}

	if !stations.Admit(tag) {
		log.Panicf("%s: no free station although not full", stations.Name())
	}

	p.mapTable.Rename(rec)
	rec.Timing.IssueCycle = p.cycle
	p.queue.Dequeue()

	p.invoke(HookPosIssue, rec)

	return nil
}

// fetch takes the next trace entry. Traps retire on the spot and fetching
// continues with the following entry. The first other entry enters the
// queue.
func (p *Pipeline) fetch() error {
	if p.queue.Full() {
		if p.fetchPos < p.total {
			p.stats.QueueFullStalls++
		}
		return nil
	}

	for p.fetchPos < p.total {
		rec := p.arena.Get(Tag(p.fetchPos + 1))
		p.fetchPos++

		p.invoke(HookPosFetch, rec)

		if rec.Inst.IsTrap() {
			p.stats.Traps++
			p.complete(rec)
			continue
		}

		p.queue.Enqueue(rec.Tag)
		rec.Timing.DispatchCycle = p.cycle
		p.invoke(HookPosDispatch, rec)

		return nil
	}

	return nil
}

// complete marks rec as retired in the current cycle.
func (p *Pipeline) complete(rec *Record) {
	if rec.Retired() {
		log.Panicf("instruction %d retired twice", rec.Tag)
	}

	rec.Timing.RetireCycle = p.cycle
	p.retired++
	p.stats.Instructions++

	p.invoke(HookPosRetire, rec)
}
