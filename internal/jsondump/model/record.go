// Package model defines the flattened records written by the JSON dump.
package model

import (
	"bytes"
	"encoding/json"
)

// BlockRecord is the exported view of a single block.
type BlockRecord struct {
	Hash      string     `json:"block_hash"`
	Timestamp uint32     `json:"timestamp"`
	Inputs    []TxRecord `json:"tx_in"`
	Outputs   []TxRecord `json:"tx_out"`
}

// TxRecord is one input or output occurrence of a transaction.
type TxRecord struct {
	TxID    string  `json:"tx"`
	Address Address `json:"address"`
}

// Address is an optional resolved destination address. The zero value is absent.
type Address struct {
	value string
	ok    bool
}

// SomeAddress returns a present address.
func SomeAddress(addr string) Address {
	return Address{value: addr, ok: true}
}

// NoAddress returns an absent address.
func NoAddress() Address {
	return Address{}
}

// Get returns the address and whether it is present.
func (a Address) Get() (string, bool) {
	return a.value, a.ok
}

// IsPresent reports whether an address was resolved.
func (a Address) IsPresent() bool {
	return a.ok
}

func (a Address) String() string {
	if !a.ok {
		return "<none>"
	}
	return a.value
}

// MarshalJSON encodes an absent address as null.
func (a Address) MarshalJSON() ([]byte, error) {
	if !a.ok {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON accepts null or a string.
func (a *Address) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Address{}
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = SomeAddress(value)
	return nil
}

// Summary reports the totals of a finished dump run.
type Summary struct {
	StartHeight uint64
	EndHeight   uint64
	Blocks      int
	TxCount     uint64
	InCount     uint64
	OutCount    uint64
}
