package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind string
	Port int
}

// LabelResponse is the parsed storage unit label
type LabelResponse struct {
	Sequence int    `json:"sequence"`
	Version  string `json:"version"`
	Layout   string `json:"layout"`
	MaxLen   int64  `json:"maxlen"`
	ID       string `json:"id"`
}

// RecordsResponse summarizes the record index
type RecordsResponse struct {
	Path         string         `json:"path,omitempty"`
	Count        int            `json:"count"`
	Explicit     int            `json:"explicit"`
	Encrypted    int            `json:"encrypted"`
	Inconsistent int            `json:"inconsistent"`
	ByType       map[uint8]int  `json:"by_type"`
}

// RecordResponse is the metadata of a single logical record; payload bytes
// are never served
type RecordResponse struct {
	Index      int   `json:"index"`
	Type       uint8 `json:"type"`
	Explicit   bool  `json:"explicit"`
	Encrypted  bool  `json:"encrypted"`
	Consistent bool  `json:"consistent"`
	Length     int   `json:"length"`
}

// ObjectSetResponse is one parsed object set
type ObjectSetResponse struct {
	Type         string           `json:"type"`
	Name         string           `json:"name,omitempty"`
	Inconsistent bool             `json:"inconsistent,omitempty"`
	Objects      []ObjectResponse `json:"objects"`
}

// ObjectResponse is one object and its attributes
type ObjectResponse struct {
	Name       ObNameResponse      `json:"name"`
	Attributes []AttributeResponse `json:"attributes"`
}

// ObNameResponse mirrors an obname triple
type ObNameResponse struct {
	Origin uint32 `json:"origin"`
	Copy   uint8  `json:"copy"`
	ID     string `json:"id"`
}

// AttributeResponse is one attribute slot; Values is nil for absent slots
type AttributeResponse struct {
	Label  string        `json:"label"`
	Count  int           `json:"count"`
	RepC   string        `json:"reprc"`
	Units  string        `json:"units,omitempty"`
	Values []interface{} `json:"values,omitempty"`
}
