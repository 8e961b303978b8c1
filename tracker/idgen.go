package tracker

// idGenerator hands out track identities for a single session.  IDs start
// at 1 and are never reused until the generator is reset.
type idGenerator struct {
	id int
}

// next returns the next incremental track ID
func (g *idGenerator) next() int {
	g.id++
	return g.id
}

// last returns the most recently issued ID, 0 if none
func (g *idGenerator) last() int {
	return g.id
}

// reset restarts numbering from 1
func (g *idGenerator) reset() {
	g.id = 0
}
