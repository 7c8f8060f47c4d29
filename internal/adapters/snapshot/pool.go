package snapshot

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
)

// job is one manager snapshot waiting to be read.
type job struct {
	index   int
	manager string
	source  string
}

type result struct {
	records []model.WeeklyRecord
	err     error
}

// LoadAll loads every manager in sources using a bounded pool of workers.
// Jobs are dispatched in ascending manager order. Any failure fails the
// whole load; the error reported is the one of the first failing manager
// in that order, regardless of which worker finished first.
func (l *Loader) LoadAll(ctx context.Context, sources map[string]string) (map[string][]model.WeeklyRecord, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	workers := l.workers
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan job)
	results := make([]result, len(names))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go l.work(ctx, "loader-"+strconv.Itoa(i), jobs, results, &wg)
	}

	for i, name := range names {
		jobs <- job{index: i, manager: name, source: sources[name]}
	}
	close(jobs)
	wg.Wait()

	out := make(map[string][]model.WeeklyRecord, len(names))
	for i, name := range names {
		if results[i].err != nil {
			return nil, results[i].err
		}
		out[name] = results[i].records
	}
	return out, nil
}

// work drains jobs until the channel is closed. Each job owns its slot in
// results, so workers never write the same index.
func (l *Loader) work(ctx context.Context, name string, jobs <-chan job, results []result, wg *sync.WaitGroup) {
	defer wg.Done()
	log := l.logger.Named(name)

	for j := range jobs {
		records, err := l.Load(ctx, j.manager, j.source)
		if err != nil {
			log.Debug(ctx, "snapshot load failed",
				logger.String("manager", j.manager),
				logger.Error(err),
			)
		}
		results[j.index] = result{records: records, err: err}
	}
}
