package utils

// Guard runs cleanup for a partially constructed resource when a constructor bails out early.
// Correct usage:
//
//	guard := NewGuard(func() { handle.Close() })
//	defer guard.OnFail()
//	if err != nil { return nil, err }
//	guard.Success()
//	return sensor, nil
type Guard struct {
	OnFail  func()
	success bool
}

// NewGuard returns a NewGuard.
func NewGuard(onFailCleanup func()) *Guard {
	ret := &Guard{}
	ret.OnFail = func() {
		if !ret.success {
			onFailCleanup()
		}
	}
	return ret
}

// Success declares the constructor succeeded and the cleanup must not run.
func (guard *Guard) Success() {
	guard.success = true
}
