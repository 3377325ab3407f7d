package shortener

import (
	"math"

	"github.com/lithammer/shortuuid/v4"
)

// alphabet is the base57 set shortuuid encodes with: no 0/O, 1/I/l look-alikes
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const (
	// DefaultLength is the short code length used when none is configured
	DefaultLength = 8

	// MinLength and MaxLength bound the configurable length.
	// A short UUID is 22 base57 characters, so nothing longer can be cut from it.
	MinLength = 4
	MaxLength = 22
)

// CodeGenerator produces short codes by truncating a base57-encoded random UUID.
// Safe for concurrent use.
type CodeGenerator struct {
	length int
}

// NewCodeGenerator creates a new code generator with specified length
//   - 6 chars = 57^6 = ~34 billion combinations
//   - 8 chars = 57^8 = ~111 trillion combinations
func NewCodeGenerator(length int) *CodeGenerator {
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	return &CodeGenerator{
		length: length,
	}
}

// Length returns the configured code length
func (g *CodeGenerator) Length() int {
	return g.length
}

// Generate returns a fresh code. It does not check the store; callers retry on collision.
func (g *CodeGenerator) Generate() string {
	return shortuuid.New()[:g.length]
}

// CollisionProbability approximates the chance that numCodes codes contain a duplicate.
// Birthday bound: k^2 / (2*N) with N = 57^length, capped at 1.
func (g *CodeGenerator) CollisionProbability(numCodes int) float64 {
	if numCodes <= 0 {
		return 0.0
	}

	totalCombinations := math.Pow(float64(len(alphabet)), float64(g.length))
	k := float64(numCodes)

	return math.Min(k*k/(2.0*totalCombinations), 1.0)
}
