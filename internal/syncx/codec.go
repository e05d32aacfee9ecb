package syncx

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
)

// DecodeRecord parses one wire row into the typed record for table. Unknown
// JSON fields are rejected: rows are explicit per-table schemas, not open
// maps. The record is not validated here; call Validate separately so the
// caller can skip invalid rows individually.
func DecodeRecord(table string, raw json.RawMessage) (Record, error) {
	spec, ok := Spec(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q: %w", table, common.ErrorValidation)
	}

	rec := spec.New()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return nil, fmt.Errorf("malformed %s row: %w", table, common.ErrorValidation)
	}
	return rec, nil
}

// EncodeRecords marshals typed records into wire rows.
func EncodeRecords(recs []Record) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s row: %w", r.Table(), err)
		}
		out = append(out, b)
	}
	return out, nil
}
