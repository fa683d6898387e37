// Package multicsv reads one designated column across an ordered list of tabular sources
// as if they were a single sequence.
//
// The Iterator keeps exactly one source in memory at a time.
// When the active source runs out of rows it releases the table and loads the next one,
// skipping sources that have no rows at all,
// and once the last source is used up it settles into a stable exhausted state.
//
//	it, err := multicsv.New(ctx, sources.New("a.csv", "b.csv"), "column", csvloader.Loader{})
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for {
//		value, ok, err := it.NextValue()
//		if err != nil {
//			return err
//		}
//		if !ok {
//			break
//		}
//		fmt.Println(value)
//	}
package multicsv

// DefaultColumn is the designated column used when no other is configured.
const DefaultColumn = "column"
