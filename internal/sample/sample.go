// Package sample provides the sentences typed during a test.
package sample

import (
	"math/rand"
	"time"
)

// Default is the built-in sentence pool.
var Default = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Typing tests are a fun way to improve your speed and accuracy.",
	"React makes building interactive user interfaces much easier.",
	"Practice makes perfect, keep typing daily to see improvements.",
	"Consistent practice leads to remarkable typing proficiency gains.",
	"Programming requires precise typing skills for efficient coding.",
	"Touch typing can dramatically increase your productivity at work.",
}

// Picker selects sentences uniformly at random.
type Picker struct {
	texts []string
	rnd   *rand.Rand
}

// New returns a Picker over texts seeded with the current time. An empty
// texts falls back to Default.
func New(texts []string) *Picker {
	return NewWithSource(texts, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Picker driven by src.
func NewWithSource(texts []string, src rand.Source) *Picker {
	if len(texts) == 0 {
		texts = Default
	}
	pool := make([]string, len(texts))
	copy(pool, texts)
	return &Picker{texts: pool, rnd: rand.New(src)}
}

// Pick returns one sentence from the pool.
func (p *Picker) Pick() string {
	return p.texts[p.rnd.Intn(len(p.texts))]
}

// Texts returns a copy of the pool.
func (p *Picker) Texts() []string {
	out := make([]string, len(p.texts))
	copy(out, p.texts)
	return out
}
