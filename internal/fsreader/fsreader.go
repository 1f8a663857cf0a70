// Package fsreader is the concrete, async implementation of the
// filesystem contract described in §6: readFile(path, callback) and a
// synchronous fileExists. The outstanding-read counter the processing
// queue polls before it will parse is kept by analysis.Queue, not here.
package fsreader

import "os"

// Reader dispatches each ReadFile call on its own goroutine, mirroring
// the async "callback(err, data)" shape of the contract. It satisfies
// analysis.FileReader.
type Reader struct{}

// New creates a filesystem-backed Reader.
func New() *Reader {
	return &Reader{}
}

// ReadFile reads path in a new goroutine and invokes cb exactly once
// with its contents, or an error.
func (r *Reader) ReadFile(path string, cb func(data string, err error)) {
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			cb("", err)
			return
		}
		cb(string(data), nil)
	}()
}

// FileExists is synchronous, matching §6's contract exactly ("fileExists
// is synchronous").
func (r *Reader) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
