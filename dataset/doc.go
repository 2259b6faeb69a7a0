// Package dataset reads Cinema image databases from a directory.
//
// A Store loads info.json and rendering.json, either of which may be
// stored gzip (.gz) or zstd (.zst) compressed, and fetches the sprite
// sheet of a viewpoint by expanding the dataset's name pattern:
//
//	store, err := dataset.Open("/data/cinema/volume.cdb")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	sheet, err := store.Fetch(ctx, cinema.Controls{"phi": "30", "theta": "90"})
//
// Store implements cinema.Fetcher and is safe for concurrent use.
package dataset
