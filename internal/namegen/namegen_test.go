package namegen

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"smail/backend/internal/domain"
)

var candidatePattern = regexp.MustCompile(`^[a-z]+-[a-z]+-\d{4}$`)

func TestGenerateFormat(t *testing.T) {
	gen := New()

	for i := 0; i < 100; i++ {
		candidate := gen.Generate()
		assert.Regexp(t, candidatePattern, candidate)
	}
}

// 生成结果必须直接通过本地部分验证，否则申领会在验证层被拒
func TestGenerateIsValidLocalPart(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		candidate := gen.Generate()
		normalized, err := domain.NormalizeLocalPart(candidate)
		assert.NoError(t, err)
		assert.Equal(t, candidate, normalized)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	first := NewWithSource(rand.NewSource(42))
	second := NewWithSource(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Generate(), second.Generate())
	}
}

// 熵检查：同一个生成器连续取值几乎不重复
func TestGenerateEntropy(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))

	seen := make(map[string]struct{})
	duplicates := 0
	for i := 0; i < 1000; i++ {
		candidate := gen.Generate()
		if _, ok := seen[candidate]; ok {
			duplicates++
		}
		seen[candidate] = struct{}{}
	}
	assert.LessOrEqual(t, duplicates, 1)
}
