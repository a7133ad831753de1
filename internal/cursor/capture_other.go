//go:build !darwin && !windows

package cursor

// stubProvider reports the cursor appearance as unavailable. Sampling
// still records moves and clicks; every event carries the default
// cursor identity.
type stubProvider struct{}

// NewSystemProvider returns the cursor provider for this platform.
func NewSystemProvider() Provider { return stubProvider{} }

func (stubProvider) Capture() (*Image, bool) { return nil, false }
