package report

// Normalize makes every row carry the same columns. Headers are the union of
// the row keys in first-seen order; a missing column is filled with "".
// Rows are returned with their cells in header order. The input is not
// modified.
func Normalize(rows []Row) ([]string, []Row) {
	headers := []string{}
	seen := map[string]struct{}{}
	for _, r := range rows {
		for _, c := range r {
			if _, ok := seen[c.Key]; ok {
				continue
			}
			seen[c.Key] = struct{}{}
			headers = append(headers, c.Key)
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		nr := make(Row, len(headers))
		for i, h := range headers {
			v, ok := r.Get(h)
			if !ok {
				v = ""
			}
			nr[i] = Cell{Key: h, Value: v}
		}
		out = append(out, nr)
	}
	return headers, out
}
