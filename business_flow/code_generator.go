package businessflow

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/kompihq/kompi-links/repository"
)

// codeAlphabet is the 62-symbol alphanumeric alphabet codes draw from
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// DefaultCodeLength is used when no length is configured
	DefaultCodeLength = 6

	// attemptsPerLength bounds collision retries before the generator
	// escalates to a longer code, so a crowded code space cannot spin
	// the creation path forever.
	attemptsPerLength = 10

	// maxCodeLength is the hard ceiling for escalation
	maxCodeLength = 10
)

// CodeGenerator produces short codes that do not currently exist in
// the link store. The existence check is only a pre-filter: the store's
// unique constraint on code remains the real uniqueness guarantee, and
// callers retry on a constraint violation during insert.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type RandomCodeGenerator struct {
	repo   repository.LinkRepository
	length int
}

func NewCodeGenerator(repo repository.LinkRepository, length int) CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	if length > maxCodeLength {
		length = maxCodeLength
	}
	return &RandomCodeGenerator{repo: repo, length: length}
}

func (g *RandomCodeGenerator) Generate(ctx context.Context) (string, error) {
	for length := g.length; length <= maxCodeLength; length++ {
		for attempt := 0; attempt < attemptsPerLength; attempt++ {
			candidate, err := randomCode(length)
			if err != nil {
				return "", NewBusinessError("CODE_GENERATION_FAILED", "Failed to draw random code", err)
			}
			exists, err := g.repo.CodeExists(ctx, candidate)
			if err != nil {
				return "", NewBusinessError("CODE_LOOKUP_FAILED", "Failed to check code existence", err)
			}
			if !exists {
				return candidate, nil
			}
		}
	}
	return "", ErrCodeSpaceExhausted
}

// randomCode draws length symbols uniformly from codeAlphabet
func randomCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
