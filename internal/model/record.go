package model

// Record is one unit of input text. Parquet inputs map one row to one Record;
// a plain text file is a single Record.
type Record struct {
	ID   string `parquet:"id,optional"`
	Text string `parquet:"text"`
}

// Finding is one date expression located in a Record. Offsets are byte
// offsets into Record.Text.
type Finding struct {
	RecordID string `json:"record_id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"text"`
	Pattern  string `json:"pattern"`

	// Set only when conversion was requested.
	Local   string `json:"local,omitempty"`
	Grammar string `json:"grammar,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Unrecognized reports whether conversion was attempted and failed.
func (f Finding) Unrecognized() bool {
	return f.Err != ""
}
