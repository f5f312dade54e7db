package api

// ServerConfig holds the settings the REST server needs
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BulkEntry is one key-value pair in a bulk insert request
type BulkEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BulkRequest represents a bulk insert request. Sorted tells the map
// the entries arrive in non-decreasing key order.
type BulkRequest struct {
	Entries []BulkEntry `json:"entries"`
	Sorted  bool        `json:"sorted"`
}

// BeforeResponse is the payload of a predecessor lookup
type BeforeResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StatsResponse reports map statistics. Len is an upper bound; every
// write counts, including writes to existing keys.
type StatsResponse struct {
	Len     int  `json:"len"`
	IsEmpty bool `json:"is_empty"`
}
