package audit

import (
	"context"
	"errors"
)

type fanout []Store

// Fanout returns a Store that appends every event to each of stores in order.
// All stores are attempted; their errors are joined.
func Fanout(stores ...Store) Store {
	return fanout(stores)
}

func (f fanout) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
