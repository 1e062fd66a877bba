package term

import (
	"fmt"
	"io"
	"sync"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/acquire"
)

// progressStep is how many bytes must pass between printed updates, so
// slow terminals are not flooded during large downloads.
const progressStep = 8 << 20

// Reporter prints pipeline progress as plain lines. Safe for concurrent
// pulls.
type Reporter struct {
	mu   sync.Mutex
	out  io.Writer
	last map[string]int64
}

// NewReporter writes progress to out, typically os.Stderr.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, last: make(map[string]int64)}
}

var _ acquire.Reporter = (*Reporter)(nil)

func (r *Reporter) Phase(name, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, name)
	fmt.Fprintf(r.out, "%s: %s\n", name, phase)
}

func (r *Reporter) Progress(name string, done, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if done-r.last[name] < progressStep {
		return
	}
	r.last[name] = done
	if total > 0 {
		fmt.Fprintf(r.out, "%s: %s / %s (%d%%)\n", name, formatBytes(done), formatBytes(total), done*100/total)
	} else {
		fmt.Fprintf(r.out, "%s: %s\n", name, formatBytes(done))
	}
}

func (r *Reporter) Done(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, name)
	if err != nil {
		fmt.Fprintf(r.out, "%s: failed: %v\n", name, err)
		return
	}
	fmt.Fprintf(r.out, "%s: done\n", name)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
