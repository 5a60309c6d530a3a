package importing

import (
	"context"
	"time"
)

// RetryPolicy reexecuta um arquivo inteiro; nenhum estágio é repetido
// isoladamente
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
