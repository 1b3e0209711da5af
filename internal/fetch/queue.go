package fetch

// callQueue orders pending calls by effective priority, FIFO within a
// priority. Implements container/heap.Interface.
type callQueue []*call

func (q callQueue) Len() int { return len(q) }

func (q callQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q callQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].heapIndex = i
	q[j].heapIndex = j
}

func (q *callQueue) Push(x any) {
	c := x.(*call)
	c.heapIndex = len(*q)
	*q = append(*q, c)
}

func (q *callQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	c.heapIndex = -1
	return c
}
