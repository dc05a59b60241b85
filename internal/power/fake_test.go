package power

import "fmt"

type createCall struct {
	kind   Kind
	level  Level
	reason string
}

// recorder is a Facility that remembers every call and which handles are
// still outstanding.
type recorder struct {
	next     Handle
	creates  []createCall
	releases []Handle
	live     map[Handle]Kind

	// fail maps a kind to the status its Create returns instead of success.
	fail map[Kind]Status
}

func newRecorder() *recorder {
	return &recorder{live: make(map[Handle]Kind), fail: make(map[Kind]Status)}
}

func (r *recorder) Create(kind Kind, level Level, reason string) (Status, Handle) {
	r.creates = append(r.creates, createCall{kind: kind, level: level, reason: reason})
	if st, ok := r.fail[kind]; ok {
		return st, 0
	}
	r.next++
	r.live[r.next] = kind
	return StatusSuccess, r.next
}

func (r *recorder) Release(h Handle) {
	if h == 0 {
		panic("release of zero handle")
	}
	if _, ok := r.live[h]; !ok {
		panic(fmt.Sprintf("release of unknown or already released handle %d", h))
	}
	r.releases = append(r.releases, h)
	delete(r.live, h)
}

func (r *recorder) calls() int { return len(r.creates) + len(r.releases) }

func (r *recorder) liveKinds() map[Kind]int {
	out := make(map[Kind]int)
	for _, k := range r.live {
		out[k]++
	}
	return out
}
