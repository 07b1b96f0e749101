package clean

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full pipeline",
			in:   "***\nHello..........\n3\nWorldFoo\n\f\nBar",
			want: "Hello World Foo Bar",
		},
		{
			name: "page numbers dropped",
			in:   "first line\n12\nsecond line",
			want: "first line second line",
		},
		{
			name: "section divider collapsed",
			in:   "before **************** after",
			want: "before after",
		},
		{
			name: "short asterisk run inside a line survives",
			in:   "rated *** by the agency",
			want: "rated *** by the agency",
		},
		{
			name: "toc leaders collapsed",
			in:   "Insurance.......................12 billion",
			want: "Insurance 12 billion",
		},
		{
			name: "leader residue that is a bare number dropped",
			in:   "..........1965",
			want: "",
		},
		{
			name: "divider residue that is a bare number dropped",
			in:   "*****42",
			want: "",
		},
		{
			name: "inline divider leaves a single space",
			in:   "before **************** after and ..........1965 end",
			want: "before after and 1965 end",
		},
		{
			name: "whitespace before punctuation removed",
			in:   "we agree , mostly . yes ; no !",
			want: "we agree, mostly. yes; no!",
		},
		{
			name: "form feed becomes space",
			in:   "page one\fpage two",
			want: "page one page two",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "only garbage lines",
			in:   "***\n42\n\f\n....",
			want: "",
		},
		{
			name: "digits mixed with text kept",
			in:   "in 1965 we bought\n7\nthe mill",
			want: "in 1965 we bought the mill",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"***\nHello..........\n3\nWorldFoo\n\f\nBar",
		"we agree , mostly . yes",
		"CamelCaseWord and more",
		"Insurance.......................12",
		"..........1965",
		"*****42",
		"before **************** after",
		"plain text already clean",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
