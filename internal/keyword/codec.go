package keyword

import (
	"encoding/base64"
	"encoding/json"
)

type wireTable struct {
	PrefixBits int      `json:"prefix_bits"`
	Prefixes   []string `json:"prefixes"` // base64, one per row
}

func (t *LocalHashPrefixTable) toWire() wireTable {
	wt := wireTable{PrefixBits: t.prefixBits, Prefixes: make([]string, len(t.prefixes))}
	for i, p := range t.prefixes {
		wt.Prefixes[i] = base64.StdEncoding.EncodeToString(p)
	}
	return wt
}

// Marshal serializes the table to the JSON envelope published alongside
// a shard's public parameters.
func (t *LocalHashPrefixTable) Marshal() ([]byte, error) {
	return json.Marshal(t.toWire())
}

// Unmarshal parses the JSON envelope produced by Marshal.
func Unmarshal(raw []byte) (*LocalHashPrefixTable, error) {
	var wt wireTable
	if err := json.Unmarshal(raw, &wt); err != nil {
		return nil, err
	}
	return fromWire(wt)
}

func fromWire(wt wireTable) (*LocalHashPrefixTable, error) {
	t := &LocalHashPrefixTable{prefixBits: wt.PrefixBits, prefixes: make([][]byte, len(wt.Prefixes))}
	for i, s := range wt.Prefixes {
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		t.prefixes[i] = raw
	}
	return t, nil
}
