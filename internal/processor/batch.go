package processor

import (
	"context"
)

// RunAll processes sources one after another. A failing item never stops
// the batch; once ctx is cancelled the remaining items are reported as
// cancelled without being started.
func (p *implProcessor) RunAll(ctx context.Context, sources []string, opts Options) BatchResult {
	batch := BatchResult{Results: make([]RunResult, 0, len(sources))}

	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			res := RunResult{Source: source}
			res.record(cancelledError(StageAcquisition, err))
			res.settle()
			batch.Add(res)
			continue
		}

		p.logger.Info(ctx, "[%d/%d] %s", i+1, len(sources), source)
		batch.Add(p.Run(ctx, source, opts))
	}

	p.logger.Info(ctx, "Batch complete: %s succeeded, %d partial, %d failed", batch.Summary(), batch.Partial, batch.Failed)
	return batch
}
