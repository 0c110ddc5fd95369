// Package progrock records pipeline stages as progrock vertices.
package progrock

import (
	"context"
	"strconv"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ngxsys/internal/core/ports"
)

// Recorder implements ports.Telemetry on top of a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu   sync.Mutex
	seen map[string]int

	closeOnce sync.Once
	closeErr  error
}

// New creates a Recorder writing to an in-memory tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:    w,
		rec:  progrock.NewRecorder(w),
		seen: make(map[string]int),
	}
}

// Record starts a vertex named name. A name recorded twice gets a distinct digest
// so that each attempt keeps its own output.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := &Vertex{vertex: r.rec.Vertex(r.digest(name), name)}
	return ports.ContextWithVertex(ctx, v), v
}

func (r *Recorder) digest(name string) digest.Digest {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.seen[name]
	r.seen[name] = n + 1
	if n == 0 {
		return digest.FromString(name)
	}
	return digest.FromString(name + "#" + strconv.Itoa(n))
}

// Close flushes the recording session. Only the first call closes the writer.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		if c, ok := r.w.(interface{ Close() error }); ok {
			r.closeErr = c.Close()
		}
	})
	return r.closeErr
}
