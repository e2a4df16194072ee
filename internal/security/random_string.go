package security

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errNilSource      = errors.New("random source must not be nil")
)

func RandomString(length int, alphabet string) (string, error) {
	return RandomStringFrom(rand.Reader, length, alphabet)
}

func RandomStringFrom(source io.Reader, length int, alphabet string) (string, error) {
	if source == nil {
		return "", errNilSource
	}
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	value := make([]byte, length)
	for index := range value {
		position, err := randomBelow(source, uint32(len(alphabet)))
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position]
	}

	return string(value), nil
}

func randomBelow(source io.Reader, bound uint32) (uint32, error) {
	if bound == 0 {
		return 0, errEmptyAlphabet
	}

	ceiling := math.MaxUint32 - math.MaxUint32%bound
	var word [4]byte
	for {
		if _, err := io.ReadFull(source, word[:]); err != nil {
			return 0, fmt.Errorf("read random bytes: %w", err)
		}
		value := binary.BigEndian.Uint32(word[:])
		if value < ceiling {
			return value % bound, nil
		}
	}
}

func RandomHex(source io.Reader, size int) (string, error) {
	if source == nil {
		return "", errNilSource
	}
	if size <= 0 {
		return "", errNegativeLength
	}

	buffer := make([]byte, size)
	if _, err := io.ReadFull(source, buffer); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
