package framedma

// An AddressGenerator walks the word addresses of one frame. Reset seeds
// it with the base address and the frame length. Each Advance commits
// one word and moves to the next address.
type AddressGenerator struct {
	currentAddress uint64
	wordsRemaining uint64
}

// Reset seeds the generator for a new frame.
func (g *AddressGenerator) Reset(base, wordCount uint64) {
	g.currentAddress = base
	g.wordsRemaining = wordCount
}

// CurrentAddress returns the word address of the next word to commit.
func (g *AddressGenerator) CurrentAddress() uint64 {
	return g.currentAddress
}

// WordsRemaining returns the number of words left in the frame.
func (g *AddressGenerator) WordsRemaining() uint64 {
	return g.wordsRemaining
}

// IsLastWord reports whether the next commit is the final word of the
// frame.
func (g *AddressGenerator) IsLastWord() bool {
	return g.wordsRemaining == 1
}

// Advance commits one word. It panics when the frame is already
// exhausted, which would silently corrupt memory past the frame buffer.
func (g *AddressGenerator) Advance() {
	if g.wordsRemaining == 0 {
		panic("advancing an exhausted address generator")
	}

	g.currentAddress++
	g.wordsRemaining--
}
