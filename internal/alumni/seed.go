package alumni

import (
	"context"

	"ehsas/internal/sequence"
)

// BatchSeed reports the highest sequence already issued in a batch, whatever
// the holder's current status, so a fresh counter never hands out a number
// twice. Rejected records keep their ids and still count.
func BatchSeed(store Store) sequence.SeedFunc {
	return func(ctx context.Context, batch int) (int64, error) {
		list, err := store.List(ctx, Filter{Batch: &batch})
		if err != nil {
			return 0, err
		}
		var highest int64
		for _, a := range list {
			if a.MembershipID == nil {
				continue
			}
			if n, ok := MembershipSequence(*a.MembershipID); ok && n > highest {
				highest = n
			}
		}
		return highest, nil
	}
}
