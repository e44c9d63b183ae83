package notify

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/plan"
)

// executorRun drives p to completion on the calling goroutine.
func executorRun(p *plan.Plan) error {
	ctx := context.Background()
	for {
		n, ok := p.AwaitNext(ctx, nil)
		if !ok {
			return nil
		}
		out, err := n.Work().Execute(ctx)
		if err != nil {
			if rerr := p.ReportFailed(ctx, n, err); rerr != nil {
				return rerr
			}
			continue
		}
		if rerr := p.ReportComplete(ctx, n, out); rerr != nil {
			return rerr
		}
	}
}
