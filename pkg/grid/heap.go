package grid

// openSet is a binary min-heap over node flat indices, keyed on f-score.
// Heap positions are mirrored into node.heapIdx so a node whose cost
// improves can be re-sifted in place instead of pushed twice.
type openSet []int

func (g *Grid) pushOpen(idx int) {
	g.open = append(g.open, idx)
	g.nodes[idx].heapIdx = int32(len(g.open) - 1)
	g.siftUp(len(g.open) - 1)
}

func (g *Grid) popOpen() int {
	top := g.open[0]
	last := len(g.open) - 1
	g.swapOpen(0, last)
	g.open = g.open[:last]
	g.nodes[top].heapIdx = -1
	if last > 0 {
		g.siftDown(0)
	}
	return top
}

// updateOpen restores heap order after the node's f-score decreased.
func (g *Grid) updateOpen(idx int) {
	pos := int(g.nodes[idx].heapIdx)
	if pos < 0 {
		return
	}
	g.siftUp(pos)
}

func (g *Grid) siftUp(pos int) {
	for pos > 0 {
		parent := (pos - 1) / 2
		if g.nodes[g.open[pos]].f >= g.nodes[g.open[parent]].f {
			break
		}
		g.swapOpen(pos, parent)
		pos = parent
	}
}

func (g *Grid) siftDown(pos int) {
	n := len(g.open)
	for {
		left := 2*pos + 1
		right := 2*pos + 2
		smallest := pos
		if left < n && g.nodes[g.open[left]].f < g.nodes[g.open[smallest]].f {
			smallest = left
		}
		if right < n && g.nodes[g.open[right]].f < g.nodes[g.open[smallest]].f {
			smallest = right
		}
		if smallest == pos {
			return
		}
		g.swapOpen(pos, smallest)
		pos = smallest
	}
}

func (g *Grid) swapOpen(i, j int) {
	g.open[i], g.open[j] = g.open[j], g.open[i]
	g.nodes[g.open[i]].heapIdx = int32(i)
	g.nodes[g.open[j]].heapIdx = int32(j)
}
