package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

// separator ends the time prefix of a record.
const separator = ". "

type payload struct {
	Pos [][]float64 `json:"pos"`
	Vel [][]float64 `json:"vel"`
	Acc [][]float64 `json:"acc"`
}

// Encode renders one record, without the trailing newline:
//
//	0.05. {"pos":[[...]],"vel":[[...]],"acc":[[...]]}
func Encode[V vec.Vector](timeNow float64, st state.Molecular[V]) ([]byte, error) {
	p := payload{
		Pos: toRows(st.Pos().Snapshot()),
		Vel: toRows(st.Vel().Snapshot()),
		Acc: toRows(st.Acc().Snapshot()),
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(strconv.FormatFloat(timeNow, 'g', -1, 64))
	buf.WriteString(separator)
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode parses one record produced by Encode.
func Decode[V vec.Vector](line []byte) (float64, *state.State[V], error) {
	idx := bytes.Index(line, []byte(separator))
	if idx < 0 {
		return 0, nil, fmt.Errorf("missing time prefix")
	}

	timeNow, err := strconv.ParseFloat(string(line[:idx]), 64)
	if err != nil {
		return 0, nil, fmt.Errorf("parse time: %w", err)
	}

	var p payload
	if err := json.Unmarshal(line[idx+len(separator):], &p); err != nil {
		return 0, nil, fmt.Errorf("decode state: %w", err)
	}

	pos, err := fromRows[V]("pos", p.Pos)
	if err != nil {
		return 0, nil, err
	}
	vel, err := fromRows[V]("vel", p.Vel)
	if err != nil {
		return 0, nil, err
	}
	acc, err := fromRows[V]("acc", p.Acc)
	if err != nil {
		return 0, nil, err
	}
	if len(pos) == 0 || len(vel) != len(pos) || len(acc) != len(pos) {
		return 0, nil, fmt.Errorf("inconsistent lengths pos=%d vel=%d acc=%d", len(pos), len(vel), len(acc))
	}

	return timeNow, state.New(pos, vel, acc), nil
}

func toRows[V vec.Vector](vs []V) [][]float64 {
	rows := make([][]float64, len(vs))
	for i, v := range vs {
		rows[i] = vec.Components(v)
	}
	return rows
}

func fromRows[V vec.Vector](field string, rows [][]float64) ([]V, error) {
	d := vec.Dim[V]()
	out := make([]V, len(rows))
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("%s[%d]: expected %d components, got %d", field, i, d, len(row))
		}
		out[i] = vec.FromComponents[V](row)
	}
	return out, nil
}
