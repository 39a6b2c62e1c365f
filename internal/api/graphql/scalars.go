package graphql

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// Uint64 is a block number or counter, sent as a BigInt string
type Uint64 uint64

// FromNativeUint64 converts a uint64 to a Uint64, returning nil if the uint64 is nil
func FromNativeUint64(u *uint64) *Uint64 {
	if u == nil {
		return nil
	}

	gu := Uint64(*u)
	return &gu
}

// MarshalGQL implements graphql.Marshaler for Uint64
func (u Uint64) MarshalGQL(w io.Writer) {
	// Write as string to avoid JavaScript number precision issues
	_, _ = io.WriteString(w, strconv.Quote(strconv.FormatUint(uint64(u), 10)))
}

// UnmarshalGQL implements graphql.Unmarshaler for Uint64
func (u *Uint64) UnmarshalGQL(v interface{}) error {
	var b BigInt
	if err := b.UnmarshalGQL(v); err != nil {
		return err
	}

	val, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("cannot parse %q as uint64: %w", b, err)
	}
	*u = Uint64(val)
	return nil
}

// BigInt is a non-negative decimal integer of arbitrary size such as a token id
// or a wei amount, kept in canonical decimal form
type BigInt string

// MarshalGQL implements graphql.Marshaler for BigInt
func (b BigInt) MarshalGQL(w io.Writer) {
	if b == "" {
		_, _ = io.WriteString(w, `"0"`)
		return
	}
	_, _ = io.WriteString(w, strconv.Quote(string(b)))
}

// UnmarshalGQL implements graphql.Unmarshaler for BigInt
func (b *BigInt) UnmarshalGQL(v interface{}) error {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	default:
		return fmt.Errorf("cannot unmarshal %T to BigInt", v)
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("cannot parse %q as BigInt", s)
	}
	if n.Sign() < 0 {
		return fmt.Errorf("BigInt cannot be negative: %s", s)
	}
	*b = BigInt(n.String())
	return nil
}
