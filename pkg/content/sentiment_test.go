package content

import "testing"

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "no sentiment words",
			text: "the quarterly report was published on monday",
			want: 0,
		},
		{
			name: "purely positive",
			text: "this is the best support, really great and excellent",
			want: 1,
		},
		{
			name: "purely negative",
			text: "terrible product, the worst I have seen",
			want: -1,
		},
		{
			name: "mixed leaning positive",
			text: "great product overall, excellent value, but poor packaging",
			want: 0.333,
		},
		{
			name: "case insensitive",
			text: "BEST in class",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentimentScore(tt.text)
			if got != tt.want {
				t.Errorf("SentimentScore(%q) = %f, want %f", tt.text, got, tt.want)
			}
		})
	}
}
