package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "fenced json block",
			text:   "Here is the result:\n```json\n{\"score\": 85}\n```\nDone.",
			want:   `{"score": 85}`,
			wantOK: true,
		},
		{
			name:   "fence without language tag",
			text:   "```\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "bare object with surrounding prose",
			text:   `The answer is {"relevanceScore": 72, "category": "SALES_DATA"} as requested.`,
			want:   `{"relevanceScore": 72, "category": "SALES_DATA"}`,
			wantOK: true,
		},
		{
			name:   "nested objects",
			text:   `{"outer": {"inner": 1}, "b": 2} trailing`,
			want:   `{"outer": {"inner": 1}, "b": 2}`,
			wantOK: true,
		},
		{
			name:   "braces inside strings",
			text:   `{"text": "use {curly} braces", "n": 1}`,
			want:   `{"text": "use {curly} braces", "n": 1}`,
			wantOK: true,
		},
		{
			name:   "escaped quote inside string",
			text:   `{"text": "he said \"}\"", "n": 2}`,
			want:   `{"text": "he said \"}\"", "n": 2}`,
			wantOK: true,
		},
		{
			name:   "no json present",
			text:   "I could not produce a result.",
			wantOK: false,
		},
		{
			name:   "unbalanced object",
			text:   `{"a": 1`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
