package pacer

// Counter counts completed breaths in [0, Max], wrapping to zero on the
// increment after Max.
type Counter struct {
	max    int
	count  int
	active bool
}

func NewCounter(max int) *Counter {
	if max < 0 {
		max = 0
	}
	return &Counter{max: max}
}

func (c *Counter) Increment() {
	if c.count >= c.max {
		c.count = 0
		return
	}
	c.count++
}

func (c *Counter) Reset() { c.count = 0 }

// SetActive toggles the display state only; the count is untouched.
func (c *Counter) SetActive(active bool) { c.active = active }

func (c *Counter) Count() int   { return c.count }
func (c *Counter) Max() int     { return c.max }
func (c *Counter) Active() bool { return c.active }
