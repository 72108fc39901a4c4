package panotour

import (
	"context"
	"sync"

	"k8s.io/klog/v2"
)

// Progress receives status updates during an export and may ask for it to stop.
type Progress interface {
	SetMaximum(n int)
	SetValue(n int)
	Value() int
	SetText1(s string)
	SetText2(s string)
	Cancelled() bool
}

// LogProgress reports progress via klog and treats a done context as a cancellation request.
type LogProgress struct {
	ctx context.Context

	mu    sync.Mutex
	max   int
	value int
	text1 string
}

// NewLogProgress returns a Progress that cancels when ctx is done.
func NewLogProgress(ctx context.Context) *LogProgress {
	return &LogProgress{ctx: ctx}
}

func (p *LogProgress) SetMaximum(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.max = n
}

func (p *LogProgress) SetValue(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < p.value {
		return
	}
	p.value = n
	if p.max > 0 {
		klog.V(1).Infof("progress: %d/%d (%d%%)", n, p.max, n*100/p.max)
	}
}

func (p *LogProgress) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *LogProgress) SetText1(s string) {
	p.mu.Lock()
	p.text1 = s
	p.mu.Unlock()
	klog.Infof("%s", s)
}

func (p *LogProgress) SetText2(s string) {
	p.mu.Lock()
	t1 := p.text1
	p.mu.Unlock()
	klog.V(1).Infof("%s: %s", t1, s)
}

func (p *LogProgress) Cancelled() bool {
	return p.ctx.Err() != nil
}

// cancelled reports whether either the context or the progress sink wants the export to stop.
func cancelled(ctx context.Context, p Progress) bool {
	return ctx.Err() != nil || p.Cancelled()
}
