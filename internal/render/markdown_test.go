package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "no markup", want: "no markup"},
		{name: "bold", in: "a **big** deal", want: "a <strong>big</strong> deal"},
		{name: "italic", in: "an *odd* one", want: "an <em>odd</em> one"},
		{name: "bold and italic", in: "**b** and *i*", want: "<strong>b</strong> and <em>i</em>"},
		{
			name: "inline code",
			in:   "run `make`",
			want: `run <code class="bg-gray-100 px-1 rounded">make</code>`,
		},
		{
			name: "fenced code",
			in:   "```\nx := 1\n```",
			want: `<pre class="bg-gray-100 p-2 rounded my-2"><code><br>x := 1<br></code></pre>`,
		},
		{name: "line breaks", in: "one\ntwo", want: "one<br>two"},
		{name: "escapes html", in: "<b>x</b> & y", want: "&lt;b&gt;x&lt;/b&gt; &amp; y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToHTML(tt.in))
		})
	}
}
