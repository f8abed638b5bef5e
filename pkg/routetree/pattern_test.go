package routetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		segs    int
		query   []string
		abs     bool
	}{
		{name: "root", raw: "/", segs: 0},
		{name: "static", raw: "/users", segs: 1},
		{name: "nested static", raw: "/users/list", segs: 2},
		{name: "param", raw: "/view/:id", segs: 2},
		{name: "optional param", raw: "/page/:num?", segs: 2},
		{name: "catch-all", raw: "/files/*rest", segs: 2},
		{name: "absolute", raw: "~/admin", segs: 1, abs: true},
		{name: "query declaration", raw: "/search?q&page", segs: 1, query: []string{"q", "page"}},
		{name: "query with colon prefix", raw: "/search?:q", segs: 1, query: []string{"q"}},
		{name: "unnamed param", raw: "/x/:", wantErr: true},
		{name: "unnamed catch-all", raw: "/x/*", wantErr: true},
		{name: "catch-all not last", raw: "/x/*rest/y", wantErr: true},
		{name: "empty component", raw: "/a//b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := compilePattern(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, p.segs, tt.segs)
			assert.Equal(t, tt.query, p.query)
			assert.Equal(t, tt.abs, p.absolute)
		})
	}
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		ok      bool
		rest    string
		params  Params
	}{
		{"/users", "/users", true, "", Params{}},
		{"/users", "/users/view", true, "/view", Params{}},
		{"/users", "/posts", false, "", nil},
		{"/view/:id", "/view/123", true, "", Params{"id": "123"}},
		{"/view/:id", "/view", false, "", nil},
		{"/view/:id", "/view/123/extra", true, "/extra", Params{"id": "123"}},
		{"/page/:num?", "/page/2", true, "", Params{"num": "2"}},
		{"/page/:num?", "/page", true, "", Params{}},
		{"/files/*rest", "/files/a/b/c", true, "", Params{"rest": "a/b/c"}},
		{"/files/*rest", "/files", true, "", Params{"rest": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)

			params, rest, ok := p.match(tt.path, MatchOptions{})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.rest, rest)
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestPatternMatchCaseSensitivity(t *testing.T) {
	p, err := compilePattern("/Users")
	require.NoError(t, err)

	_, _, ok := p.match("/users", MatchOptions{})
	assert.True(t, ok, "case-insensitive by default")

	_, _, ok = p.match("/users", MatchOptions{CaseSensitive: true})
	assert.False(t, ok)
}

func TestPatternMatchDecodesParams(t *testing.T) {
	p, err := compilePattern("/view/:id")
	require.NoError(t, err)

	params, _, ok := p.match("/view/hello%20world", MatchOptions{})
	require.True(t, ok)
	assert.Equal(t, "hello world", params["id"])
}

func TestPatternBuild(t *testing.T) {
	tests := []struct {
		pattern string
		params  Params
		want    string
		wantErr bool
	}{
		{"/users", nil, "/users", false},
		{"/view/:id", Params{"id": "123"}, "/view/123", false},
		{"/view/:id", Params{}, "", true},
		{"/page/:num?", Params{}, "/page", false},
		{"/page/:num?", Params{"num": "2"}, "/page/2", false},
		{"/files/*rest", Params{"rest": "a/b"}, "/files/a/b", false},
		{"/files/*rest", Params{}, "", true},
		{"/view/:id", Params{"id": "a b"}, "/view/a%20b", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)

			got, _, err := p.build(tt.params, EncodingDefault)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodingModes(t *testing.T) {
	value := "a b/c"

	tests := []struct {
		encoding Encoding
		want     string
	}{
		{EncodingDefault, "a%20b%2Fc"},
		{EncodingURIComponent, "a%20b%2Fc"},
		{EncodingURI, "a%20b/c"},
		{EncodingNone, "a b/c"},
	}
	for _, tt := range tests {
		t.Run(string(tt.encoding), func(t *testing.T) {
			assert.Equal(t, tt.want, encodeParam(value, tt.encoding))
		})
	}
}

func TestMoreSpecific(t *testing.T) {
	static, _ := compilePattern("/users")
	param, _ := compilePattern("/:section")
	optional, _ := compilePattern("/:section?")
	splat, _ := compilePattern("/*rest")

	assert.True(t, moreSpecific(static, param))
	assert.True(t, moreSpecific(param, optional))
	assert.True(t, moreSpecific(optional, splat))
	assert.False(t, moreSpecific(splat, static))
}
