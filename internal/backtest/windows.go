package backtest

// WindowCount returns how many rolling windows of months periods fit fully in a
// series of n periods. The last period is never a window start, so the count
// is n - months when positive.
func WindowCount(n, months int) int {
	if months <= 0 || n <= months {
		return 0
	}
	return n - months
}

// WindowStarts returns the start index of every rolling window, step 1
func WindowStarts(n, months int) []int {
	count := WindowCount(n, months)
	starts := make([]int, count)
	for i := range starts {
		starts[i] = i
	}
	return starts
}

// Window returns the window beginning at start. The result shares the backing
// array with prices and is capped so appends cannot write into the series.
func Window(prices []float64, start, months int) []float64 {
	end := start + months
	return prices[start:end:end]
}
