package randomorg

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

// Alphanumeric is the default character set for generated strings.
const Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MaxStringLength bounds String requests.
const MaxStringLength = 1000

// ErrInvalidRange covers argument errors: inverted bounds, non-positive
// counts, or unique requests wider than the range allows.
var ErrInvalidRange = errors.New("randomorg: invalid range")

// Generator produces random values, preferring the random.org service.
// With a nil Client it is purely local. Unless FailOnError is set, service
// failures fall back to the local CSPRNG silently (logged at warn level).
type Generator struct {
	Client      *Client
	FailOnError bool
	Logger      *zap.Logger
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// Integers returns count random integers in [min, max]. When unique is set
// the values are distinct within the call, which requires the range to hold
// at least count values.
func (g *Generator) Integers(ctx context.Context, count, min, max int, unique bool) ([]int, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRange, count)
	}
	if min > max {
		return nil, fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidRange, min, max)
	}
	if unique && max-min+1 < count {
		return nil, fmt.Errorf("%w: cannot draw %d unique values from [%d, %d]", ErrInvalidRange, count, min, max)
	}

	if g.Client != nil && g.Client.APIKey != "" {
		if err := g.Client.CheckQuota(ctx, count); err != nil {
			if g.FailOnError {
				return nil, err
			}
			g.logger().Warn("random.org quota check failed, using local fallback", zap.Error(err))
		} else {
			values, err := g.Client.Integers(ctx, count, min, max, unique)
			if err == nil {
				return values, nil
			}
			if g.FailOnError {
				return nil, err
			}
			g.logger().Warn("random.org request failed, using local fallback", zap.Error(err))
		}
	}
	return localIntegers(count, min, max, unique)
}

// String generates a random string of the given length drawn from charset
// (Alphanumeric when empty). With unique set, no character repeats.
func (g *Generator) String(ctx context.Context, length int, charset string, unique bool) (string, error) {
	if length < 1 || length >= MaxStringLength {
		return "", fmt.Errorf("%w: length must be between 1 and %d", ErrInvalidRange, MaxStringLength)
	}
	if charset == "" {
		charset = Alphanumeric
	}
	runes := []rune(charset)
	if unique && length > len(runes) {
		return "", fmt.Errorf("%w: cannot draw %d unique characters from a %d character set", ErrInvalidRange, length, len(runes))
	}

	indexes, err := g.Integers(ctx, length, 0, len(runes)-1, unique)
	if err != nil {
		return "", err
	}
	out := make([]rune, len(indexes))
	for i, idx := range indexes {
		out[i] = runes[idx]
	}
	return string(out), nil
}

// Choice draws count elements from choices.
func (g *Generator) Choice(ctx context.Context, choices []string, count int, unique bool) ([]string, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: choices must not be empty", ErrInvalidRange)
	}
	indexes, err := g.Integers(ctx, count, 0, len(choices)-1, unique)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(indexes))
	for i, idx := range indexes {
		out[i] = choices[idx]
	}
	return out, nil
}

// Bytes returns n random bytes, from the service when available and the
// local CSPRNG otherwise.
func (g *Generator) Bytes(ctx context.Context, n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: byte count must be positive, got %d", ErrInvalidRange, n)
	}
	if g.Client != nil {
		data, err := g.Client.Bytes(ctx, n)
		if err == nil {
			return data, nil
		}
		if g.FailOnError {
			return nil, err
		}
		g.logger().Warn("random.org request failed, using local fallback", zap.Error(err))
	}
	return LocalBytes(n)
}

// LocalBytes reads n bytes from the platform CSPRNG.
func LocalBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("randomorg: local random source: %w", err)
	}
	return data, nil
}

// localIntegers draws from crypto/rand. The unique path rejects duplicates;
// the up-front range check guarantees termination is overwhelmingly likely,
// but a hard attempt cap keeps pathological cases bounded.
func localIntegers(count, min, max int, unique bool) ([]int, error) {
	span := big.NewInt(int64(max) - int64(min) + 1)

	draw := func() (int, error) {
		v, err := rand.Int(rand.Reader, span)
		if err != nil {
			return 0, fmt.Errorf("randomorg: local random source: %w", err)
		}
		return min + int(v.Int64()), nil
	}

	if !unique {
		out := make([]int, count)
		for i := range out {
			v, err := draw()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for attempts := 0; len(out) < count; attempts++ {
		if attempts > count*10000 {
			return nil, fmt.Errorf("randomorg: could not draw %d unique values from [%d, %d]", count, min, max)
		}
		v, err := draw()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
