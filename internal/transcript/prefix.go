package transcript

import "sort"

// PrefixSumIndex is a cumulative-height array over all messages: sums[i]
// holds the total height of messages 0..i. It is pure derived state,
// reconstructible from the messages at any time, and supports O(1) total
// height and O(log n) offset-to-message lookups.
type PrefixSumIndex struct {
	sums  []int
	width int
}

// Rebuild brings the index in sync with the messages' cached heights.
// Only the suffix starting at the first message whose height no longer
// matches what the index attributes to it is recomputed; while a turn
// streams that is the tail, and when nothing changed this is a no-op.
func (p *PrefixSumIndex) Rebuild(msgs []*Message, width int) {
	if p.width != width {
		p.sums = p.sums[:0]
		p.width = width
	}
	if len(p.sums) > len(msgs) {
		// Transcript was replaced wholesale; start over.
		p.sums = p.sums[:0]
	}

	start := len(p.sums)
	before := 0
	for i := 0; i < len(p.sums); i++ {
		if p.sums[i]-before != msgs[i].cachedHeight {
			start = i
			break
		}
		before = p.sums[i]
	}
	if start == len(msgs) {
		return
	}

	p.sums = p.sums[:start]
	running := 0
	if start > 0 {
		running = p.sums[start-1]
	}
	for i := start; i < len(msgs); i++ {
		running += msgs[i].cachedHeight
		p.sums = append(p.sums, running)
	}
}

// TotalHeight is the summed height of all messages.
func (p *PrefixSumIndex) TotalHeight() int {
	if len(p.sums) == 0 {
		return 0
	}
	return p.sums[len(p.sums)-1]
}

// CumulativeBefore is the summed height of messages before index.
func (p *PrefixSumIndex) CumulativeBefore(index int) int {
	if index <= 0 || len(p.sums) == 0 {
		return 0
	}
	if index > len(p.sums) {
		index = len(p.sums)
	}
	return p.sums[index-1]
}

// FirstVisibleAt returns the index of the first message whose cumulative
// height strictly exceeds offset: the message occupying that scroll row.
func (p *PrefixSumIndex) FirstVisibleAt(offset int) int {
	return sort.Search(len(p.sums), func(i int) bool {
		return p.sums[i] > offset
	})
}

// Len is the number of indexed messages.
func (p *PrefixSumIndex) Len() int { return len(p.sums) }
