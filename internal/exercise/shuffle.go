package exercise

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

// NoShuffle keeps every sequence in its original order.
var NoShuffle Shuffler = noShuffle{}

// Permutation returns a shuffled index order for n elements.
func Permutation(n int, sh Shuffler) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if sh == nil {
		sh = NoShuffle
	}
	sh.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// ShuffledCopy returns a shuffled copy of items.
func ShuffledCopy(items []string, sh Shuffler) []string {
	out := make([]string, 0, len(items))
	for _, i := range Permutation(len(items), sh) {
		out = append(out, items[i])
	}
	return out
}
