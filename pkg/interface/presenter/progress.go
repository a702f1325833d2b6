package presenter

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressPresenter renders a single progress bar when the dashboard is off
type ProgressPresenter struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	found    atomic.Int64
	once     sync.Once
}

// NewProgressPresenter creates a progress bar writing to w
func NewProgressPresenter(w io.Writer, width int) *ProgressPresenter {
	if width <= 0 {
		width = 80
	}
	p := &ProgressPresenter{
		progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(min(width/2, 64))),
	}
	p.bar = p.progress.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("hunting", decor.WCSyncWidth),
			decor.Any(func(decor.Statistics) string {
				return fmt.Sprintf("found %d", p.found.Load())
			}, decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("[%d / %d]", decor.WCSyncWidth),
			decor.Percentage(decor.WCSyncSpace),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WCSyncSpace), "done",
			),
		),
	)
	return p
}

// OnProgress implements application.HuntObserver
func (p *ProgressPresenter) OnProgress(progress entity.Progress) {
	p.found.Store(progress.Found)
	if progress.State.IsTerminal() {
		return
	}
	p.bar.SetTotal(int64(progress.TotalCandidates), false)
	p.bar.SetCurrent(progress.Checked)
}

// OnResult implements application.HuntObserver
func (p *ProgressPresenter) OnResult(entity.DomainResult) {}

// OnFinish completes the bar, also when the hunt was cancelled early
func (p *ProgressPresenter) OnFinish(summary entity.Summary) {
	p.found.Store(summary.Found)
	p.once.Do(func() {
		p.bar.SetTotal(-1, true)
	})
}

// Wait blocks until the bar has been rendered for the last time
func (p *ProgressPresenter) Wait() {
	p.once.Do(func() {
		p.bar.Abort(false)
	})
	p.progress.Wait()
}
