package executor

import "bytes"

// collector buffers process output up to a fixed byte ceiling. Writes past
// the ceiling are accepted and dropped so the child never blocks on a full
// pipe, and the Truncated flag records that output was lost.
type collector struct {
	buf       bytes.Buffer
	maxBytes  int
	truncated bool
}

func newCollector(maxBytes int) *collector {
	return &collector{maxBytes: maxBytes}
}

func (c *collector) Write(p []byte) (int, error) {
	remaining := c.maxBytes - c.buf.Len()
	if remaining <= 0 {
		c.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
		c.truncated = true
		return len(p), nil
	}
	c.buf.Write(p)
	return len(p), nil
}

func (c *collector) String() string { return c.buf.String() }

func (c *collector) Truncated() bool { return c.truncated }
