package security

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	VerificationCodeDigits = 6
	verificationCodeSpace  = 1_000_000
)

type CodeGenerator struct {
	source io.Reader
}

func NewCodeGenerator(source io.Reader) *CodeGenerator {
	if source == nil {
		source = rand.Reader
	}
	return &CodeGenerator{source: source}
}

func (generator *CodeGenerator) Generate() (string, error) {
	value, err := randomBelow(generator.source, verificationCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", VerificationCodeDigits, value), nil
}
