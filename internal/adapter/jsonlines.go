/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package adapter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// JSONLinesDecoder reads flow records from a newline-delimited JSON
// source, one {"type": "...", "data": {...}} object per line. It backs
// the -replay CLI mode and stands in for a live interface's wire
// format in the monitor/endpoint test suites.
//
// A live interface's wire protocol is not self-describing per record
// (collector.py assigns interface["type"] to every record the
// interface produces); ifaceType, when non-empty, overrides each
// non-eof line's own type field accordingly. A replay fixture mixes
// record kinds deliberately and is read with ifaceType empty so each
// line's own type is kept.
type JSONLinesDecoder struct {
	sc        *bufio.Scanner
	rc        io.ReadCloser
	ifaceType Type
}

type jsonRecord struct {
	Type Type                   `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// NewJSONLinesDecoder wraps rc, taking ownership of it (Close closes
// rc). ifaceType tags every non-eof record read from rc with the given
// kind; pass "" to keep each line's own self-reported type, as a
// replay fixture does.
func NewJSONLinesDecoder(rc io.ReadCloser, ifaceType Type) *JSONLinesDecoder {
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &JSONLinesDecoder{sc: sc, rc: rc, ifaceType: ifaceType}
}

func (d *JSONLinesDecoder) Next() (RawRecord, bool, error) {
	for d.sc.Scan() {
		line := d.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var jr jsonRecord
		if err := json.Unmarshal(line, &jr); err != nil {
			return RawRecord{}, false, fmt.Errorf("decode replay line: %w", err)
		}
		t := jr.Type
		if d.ifaceType != "" && t != EOF {
			t = d.ifaceType
		}
		return RawRecord{Type: t, Fields: fieldsFromJSON(jr.Data)}, true, nil
	}
	if err := d.sc.Err(); err != nil {
		return RawRecord{}, false, err
	}
	return RawRecord{}, false, nil
}

func (d *JSONLinesDecoder) Close() error { return d.rc.Close() }

func fieldsFromJSON(data map[string]interface{}) []RawField {
	fields := make([]RawField, 0, len(data))
	for name, v := range data {
		switch vv := v.(type) {
		case []interface{}:
			items := make([]string, 0, len(vv))
			for _, it := range vv {
				items = append(items, scalarToString(it))
			}
			fields = append(fields, RawField{Name: name, List: true, Items: items})
		default:
			fields = append(fields, RawField{Name: name, Value: scalarToString(v)})
		}
	}
	return fields
}

func scalarToString(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		if vv == float64(int64(vv)) {
			return strconv.FormatInt(int64(vv), 10)
		}
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", vv)
	}
}
