package sampler

import (
	"context"
	"sort"
	"sync"
	"time"

	"codeberg.org/mutker/perfmon/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// CPUUsage returns the summed usage of the process's non-idle threads in
// percent of one core. If a thread cannot be read mid-scan the scan stops
// and the partial sum is returned.
func (s *Sampler) CPUUsage(ctx context.Context) float64 {
	list, err := s.threads.Threads(ctx)
	if list != nil {
		defer list.Release()
	}
	if err != nil {
		s.log.Debug().Err(err).Msg("Thread enumeration failed")
		return 0
	}

	total := 0.0
	for i := 0; i < list.Len(); i++ {
		thread, err := list.Info(i)
		if err != nil {
			s.log.Debug().
				Err(err).
				Int("scanned", i).
				Int("threads", list.Len()).
				Msg("Thread scan stopped early")
			break
		}
		if thread.Idle {
			continue
		}
		total += thread.Usage * 100
	}

	return total
}

// ProcessThreads enumerates a process's threads through gopsutil. A
// thread's usage is the user+system time it accumulated since the previous
// enumeration divided by the wall-clock time in between. The first
// enumeration measures from process start.
type ProcessThreads struct {
	pid  int32
	now  func() time.Time
	read func(ctx context.Context, pid int32) (snapshot, error)

	mu     sync.Mutex
	last   map[int32]float64
	lastAt time.Time
}

// snapshot is one read of a process's per-thread CPU times.
type snapshot struct {
	created time.Time
	times   map[int32]*cpu.TimesStat
}

// NewProcessThreads returns an enumerator for pid.
func NewProcessThreads(pid int32) *ProcessThreads {
	return &ProcessThreads{pid: pid, now: time.Now, read: readSnapshot}
}

func readSnapshot(ctx context.Context, pid int32) (snapshot, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return snapshot{}, err
	}

	createdMillis, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return snapshot{}, err
	}

	times, err := proc.ThreadsWithContext(ctx)
	if err != nil {
		return snapshot{}, err
	}

	return snapshot{created: time.UnixMilli(createdMillis), times: times}, nil
}

func (p *ProcessThreads) Threads(ctx context.Context) (ThreadList, error) {
	snap, err := p.read(ctx, p.pid)
	if err != nil {
		return nil, errors.New().Wrap(ErrThreadEnumeration, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	since := p.lastAt
	if p.last == nil {
		since = snap.created
	}
	elapsed := now.Sub(since).Seconds()

	threads := make(map[int32]*Thread, len(snap.times))
	current := make(map[int32]float64, len(snap.times))
	for id, stat := range snap.times {
		if stat == nil {
			threads[id] = nil
			if prev, ok := p.last[id]; ok {
				current[id] = prev
			}
			continue
		}

		busy := stat.User + stat.System
		current[id] = busy

		// a thread missing from the previous sample started after it
		delta := busy - p.last[id]
		if delta < 0 {
			// thread id was reused
			delta = busy
		}

		thread := &Thread{ID: id, Idle: delta <= 0}
		if elapsed > 0 && delta > 0 {
			thread.Usage = delta / elapsed
		}
		threads[id] = thread
	}

	p.last = current
	p.lastAt = now

	return newThreadList(threads), nil
}

type threadList struct {
	ids     []int32
	threads map[int32]*Thread
}

func newThreadList(threads map[int32]*Thread) *threadList {
	ids := make([]int32, 0, len(threads))
	for id := range threads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &threadList{ids: ids, threads: threads}
}

func (l *threadList) Len() int {
	return len(l.ids)
}

func (l *threadList) Info(i int) (Thread, error) {
	errFactory := errors.New()

	if i < 0 || i >= len(l.ids) {
		return Thread{}, errFactory.WithData(ErrThreadInfo, i)
	}

	id := l.ids[i]
	thread := l.threads[id]
	if thread == nil {
		return Thread{}, errFactory.WithData(ErrThreadInfo, id)
	}

	return *thread, nil
}

func (l *threadList) Release() {
	l.ids = nil
	l.threads = nil
}
