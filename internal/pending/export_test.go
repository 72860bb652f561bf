package pending

import "time"

// SetClock replaces the store's time source.
func (fs *FileStore) SetClock(now func() time.Time) {
	fs.now = now
}
