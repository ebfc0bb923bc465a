package logscan

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		ec1  ErrorCounter
		ec2  ErrorCounter
		want ErrorCounter
	}{
		{
			name: "merge both",
			ec1:  ErrorCounter{"error": 1, `level":"fatal"`: 10},
			ec2:  ErrorCounter{"error": 1, `level":"fatal"`: 0},
			want: ErrorCounter{"error": 2, `level":"fatal"`: 10},
		},
		{
			name: "both nil",
			want: ErrorCounter{},
		},
		{
			name: "first nil",
			ec2:  ErrorCounter{"error": 1},
			want: ErrorCounter{"error": 1},
		},
		{
			name: "second nil",
			ec1:  ErrorCounter{"error": 1},
			want: ErrorCounter{"error": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(tt.ec1, tt.ec2); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewErrorCounter(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		pattern []string
		want    ErrorCounter
	}{
		{
			name: "parse counters",
			buf: `this buffer has one error,
					and another 'ERROR:', also crashs with 'panic.go:12:'.
					Some messages of Failed to push image`,
			pattern: CommonErrorPatterns,
			want: ErrorCounter{
				`'ERROR:'`: 1, `Failed`: 1, `Failed to push image`: 1,
				`error`: 1, `panic(\.go)?:`: 1, `total`: 5,
			},
		},
		{
			name:    "no counters",
			buf:     `this buffer has nothing to parse`,
			pattern: CommonErrorPatterns,
			want:    nil,
		},
		{
			name:    "line anchored patterns",
			buf:     "ok\nerror: disk full\nFAIL: TestX",
			pattern: []string{`(?m)^error:`, `(?m)(^FAIL|FAIL: |Failure \[)\b`},
			want:    ErrorCounter{`(?m)^error:`: 1, `(?m)(^FAIL|FAIL: |Failure \[)\b`: 1, `error`: 1, `total`: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewErrorCounter(tt.buf, tt.pattern); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewErrorCounter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	ec := ErrorCounter{"b": 2, "a": 2, "c": 5, TotalKey: 9}
	assert.Equal(t, []Count{{"c", 5}, {"a", 2}, {"b", 2}}, ec.Sorted())
	assert.Empty(t, ErrorCounter(nil).Sorted())
}
