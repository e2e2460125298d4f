// Package slug generates shortlinks for links created without one.
// Generators are safe for concurrent use.
package slug

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	StyleUID  = "uid"
	StylePair = "pair"

	DefaultLength = 8
	MinLength     = 4
)

type Generator interface {
	Generate() string
}

// New returns the generator for style. length only applies to StyleUID.
func New(style string, length int) (Generator, error) {
	switch strings.ToLower(style) {
	case "", StyleUID:
		if length == 0 {
			length = DefaultLength
		}
		if length < MinLength {
			return nil, fmt.Errorf("slug length must be at least %d, got %d", MinLength, length)
		}
		return uidGenerator{length: length}, nil
	case StylePair:
		return pairGenerator{}, nil
	}

	return nil, fmt.Errorf("unknown slug style %q", style)
}

type uidGenerator struct {
	length int
}

func (g uidGenerator) Generate() string {
	return lo.RandomString(g.length, lo.AlphanumericCharset)
}

type pairGenerator struct{}

func (pairGenerator) Generate() string {
	return lo.Sample(adjectives) + "-" + lo.Sample(names)
}

var adjectives = []string{
	"admiring", "adoring", "agitated", "amazing", "angry", "awesome", "blissful", "bold",
	"boring", "brave", "busy", "charming", "clever", "cool", "compassionate", "competent",
	"confident", "crazy", "dazzling", "determined", "distracted", "dreamy", "eager", "ecstatic",
	"elastic", "elated", "elegant", "eloquent", "epic", "fervent", "festive", "focused",
	"friendly", "frosty", "gallant", "gifted", "goofy", "gracious", "happy", "hardcore",
	"heuristic", "hopeful", "hungry", "infallible", "inspiring", "jolly", "jovial", "keen",
	"kind", "laughing", "loving", "lucid", "magical", "modest", "musing", "mystifying",
	"nervous", "nice", "nifty", "nostalgic", "objective", "optimistic", "peaceful", "pedantic",
	"pensive", "practical", "priceless", "quirky", "quizzical", "relaxed", "reverent", "romantic",
	"serene", "sharp", "silly", "sleepy", "stoic", "strange", "sweet", "tender",
	"thirsty", "trusting", "upbeat", "vibrant", "vigilant", "vigorous", "wizardly", "wonderful",
	"xenodochial", "youthful", "zealous", "zen",
}

var names = []string{
	"agnesi", "albattani", "archimedes", "babbage", "banach", "bardeen", "bell", "bhabha",
	"bohr", "booth", "borg", "bose", "brahmagupta", "cannon", "carson", "cerf",
	"chandrasekhar", "clarke", "curie", "darwin", "dijkstra", "dirac", "einstein", "euclid",
	"euler", "faraday", "fermat", "fermi", "feynman", "franklin", "galileo", "gauss",
	"goldberg", "goodall", "hamilton", "hawking", "heisenberg", "hopper", "hypatia", "jackson",
	"jang", "kalam", "kepler", "khorana", "knuth", "lamport", "leakey", "liskov",
	"lovelace", "mayer", "mccarthy", "meitner", "mendel", "mirzakhani", "morse", "napier",
	"newton", "noether", "pare", "pascal", "pasteur", "perlman", "pike", "poincare",
	"raman", "ramanujan", "ride", "ritchie", "rosalind", "sammet", "shannon", "shockley",
	"sinoussi", "swartz", "tesla", "thompson", "torvalds", "turing", "wescoff", "wiles",
	"williams", "wing", "wozniak", "wright", "yalow", "yonath",
}
