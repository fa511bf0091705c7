// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bufio"
	"io"
	"sync"
)

// maxLineSize bounds a single line of compiler output.
const maxLineSize = 1 << 20

// lineWriter serializes whole lines onto a writer shared by several streams.
type lineWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw lineWriter) writeLine(line []byte) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = lw.w.Write(line)
	_, _ = lw.w.Write([]byte{'\n'})
}

// streamLines copies r to out line by line until EOF. A line longer than
// maxLineSize ends the copy; the remainder is drained so the child never
// blocks on a full pipe.
func streamLines(wg *sync.WaitGroup, r io.Reader, out lineWriter) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			out.writeLine(sc.Bytes())
		}
		_, _ = io.Copy(io.Discard, r)
	}()
}
