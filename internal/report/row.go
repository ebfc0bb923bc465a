package report

// Cell is one column of a result row.
type Cell struct {
	Key   string
	Value interface{}
}

// Row is an ordered column to value mapping.
type Row []Cell

// NewRow builds a row from alternating keys and values.
func NewRow(kv ...interface{}) Row {
	r := make(Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func (r Row) Get(key string) (interface{}, bool) {
	for _, c := range r {
		if c.Key == key {
			return c.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key, or appends it as a new column.
func (r Row) Set(key string, value interface{}) Row {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Cell{Key: key, Value: value})
}

func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Key
	}
	return keys
}
