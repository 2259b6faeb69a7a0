package parallel

// Bands splits rows [0, height) into at most n contiguous bands and calls fn
// once per band. With a nil pool or a single band fn runs inline.
func Bands(pool *WorkerPool, height, n int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if pool == nil || n <= 1 || height == 1 {
		fn(0, height)
		return
	}
	n = min(n, height)

	step := (height + n - 1) / n
	work := make([]func(), 0, n)
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		work = append(work, func() { fn(y0, y1) })
	}
	pool.ExecuteAll(work)
}
