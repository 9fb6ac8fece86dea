package pool

// jobQueue is a FIFO ring buffer of jobs. It is not safe for concurrent use;
// the owning Pool guards it with its mutex.
type jobQueue struct {
	buf  []Job
	head int
	size int
}

func newJobQueue(initialCap int) *jobQueue {
	if initialCap < 1 {
		initialCap = 16
	}
	return &jobQueue{buf: make([]Job, initialCap)}
}

func (q *jobQueue) push(job Job) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = job
	q.size++
}

// pop removes the head of the queue. ok is false when the queue is empty.
func (q *jobQueue) pop() (job Job, ok bool) {
	if q.size == 0 {
		return nil, false
	}
	job = q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return job, true
}

func (q *jobQueue) len() int {
	return q.size
}

// clear drops every queued job and returns how many were dropped.
func (q *jobQueue) clear() int {
	n := q.size
	for i := 0; i < q.size; i++ {
		q.buf[(q.head+i)%len(q.buf)] = nil
	}
	q.head = 0
	q.size = 0
	return n
}

func (q *jobQueue) grow() {
	buf := make([]Job, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
