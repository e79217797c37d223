package aqitop

// Cache is the latest known state of one polled series. Data from the last
// successful fetch survives later failures.
type Cache struct {
	Series   Series
	data     []Sample
	err      error
	loaded   bool
	inFlight bool

	// generation invalidates poll timers scheduled before the latest fetch
	generation int
}

func NewCache(series Series) *Cache {
	return &Cache{Series: series}
}

// Begin marks a fetch as started
func (c *Cache) Begin() {
	c.inFlight = true
}

// Apply stores a fetch result and returns the generation the next poll
// timer must carry
func (c *Cache) Apply(samples []Sample, err error) int {
	c.inFlight = false
	c.generation++
	if err != nil {
		c.err = err
		return c.generation
	}
	c.data = samples
	c.err = nil
	c.loaded = true
	return c.generation
}

// Current reports whether a timer of generation gen is still live
func (c *Cache) Current(gen int) bool {
	return gen == c.generation
}

func (c *Cache) Data() []Sample {
	return c.data
}

func (c *Cache) Err() error {
	return c.err
}

// Loading is true while the first fetch is outstanding
func (c *Cache) Loading() bool {
	return c.inFlight && !c.loaded
}

// Last returns the newest sample, if any
func (c *Cache) Last() (Sample, bool) {
	if len(c.data) == 0 {
		return Sample{}, false
	}
	return c.data[len(c.data)-1], true
}
