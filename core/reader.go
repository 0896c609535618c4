package core

import "context"

// Record is the raw outcome of reading one address from the ledger. A record
// that has not been created yet is reported with Exists=false and is a valid,
// non-error outcome.
type Record struct {
	Address Address
	Data    []byte
	Exists  bool
}

// AbsentRecord returns a Record marking the address as not present.
func AbsentRecord(addr Address) Record {
	return Record{Address: addr}
}

// Request pairs an address with the semantic label of the field it
// represents. Labels let the batch coordinator re-associate raw results with
// their fields after an unordered batch response, and tag log lines.
type Request struct {
	Address Address
	Label   string
}

// RemoteReader is the external capability this layer depends on to read raw
// records from the ledger. Implemented by the ledger RPC client, which is out
// of scope here.
//
// BatchGet reads many addresses in one round-trip. Implementations may
// return records in any order but must preserve address identity in the
// response so results can be re-associated. SingleGet reads one address.
// Both treat a missing record as Exists=false, not as an error.
type RemoteReader interface {
	BatchGet(ctx context.Context, addrs []Address) ([]Record, error)
	SingleGet(ctx context.Context, addr Address) (Record, error)
}

// DecodeFunc turns the raw bytes of one record into its typed value. A
// decoder must return the value by value (not a pointer into shared state)
// so cached values cannot be mutated by callers. Decode failures are
// reported as errors, never as panics; "absent" never reaches a decoder.
type DecodeFunc func(raw []byte) (any, error)
