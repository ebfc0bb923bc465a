// Package logscan counts well known error patterns in fetched logs.
package logscan

import (
	"regexp"
	"sort"
)

const TotalKey = "total"

// CommonErrorPatterns are the patterns matched in CI, container and pod logs.
var CommonErrorPatterns = []string{
	`error:`,
	`Failed to push image`,
	`Failed`,
	`timed out`,
	`'ERROR:'`,
	`ERRO\[`,
	`(?m)^error:`,
	`(?m)(^FAIL|FAIL: |Failure \[)\b`,
	`panic(\.go)?:`,
	`"level":"error"`,
	`level=error`,
	`level":"fatal"`,
	`level=fatal`,
	`│ Error:`,
	`client connection lost`,
	`Traceback \(most recent call last\)`,
	`OOMKilled`,
	`CrashLoopBackOff`,
	`exit code [1-9][0-9]*`,
}

// ErrorCounter holds the number of matches per pattern, plus the "total" key.
type ErrorCounter map[string]int

// NewErrorCounter scans buf with every pattern and the generic `error`
// pattern. It returns nil when nothing matched.
func NewErrorCounter(buf string, patterns []string) ErrorCounter {
	total := 0
	counters := make(ErrorCounter, len(patterns)+2)

	all := append(append(make([]string, 0, len(patterns)+1), patterns...), `error`)
	for _, errName := range all {
		reErr := regexp.MustCompile(errName)
		if matches := reErr.FindAllStringIndex(buf, -1); len(matches) != 0 {
			counters[errName] += len(matches)
			total += len(matches)
		}
	}

	if total == 0 {
		return nil
	}
	counters[TotalKey] = total
	return counters
}

// Scan counts CommonErrorPatterns in buf.
func Scan(buf string) ErrorCounter {
	return NewErrorCounter(buf, CommonErrorPatterns)
}

// Merge sums two counters. Either may be nil.
func Merge(ec1, ec2 ErrorCounter) ErrorCounter {
	merged := make(ErrorCounter, len(ec1)+len(ec2))
	for k, v := range ec1 {
		merged[k] += v
	}
	for k, v := range ec2 {
		merged[k] += v
	}
	return merged
}

type Count struct {
	Pattern string
	Matches int
}

// Sorted lists the counters by descending matches, ties by pattern. The total
// is not included.
func (ec ErrorCounter) Sorted() []Count {
	out := make([]Count, 0, len(ec))
	for k, v := range ec {
		if k == TotalKey {
			continue
		}
		out = append(out, Count{Pattern: k, Matches: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}
