package document

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/jsonupdate"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, jsonfile.Decode([]byte(raw), &v))
	return v
}

func TestMergePatch(t *testing.T) {
	// Cases from RFC 7386 appendix A.
	tests := []struct {
		target, patch, want string
	}{
		{`{"a":"b"}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"b"}`, `{"b":"c"}`, `{"a":"b","b":"c"}`},
		{`{"a":"b"}`, `{"a":null}`, `{}`},
		{`{"a":"b","b":"c"}`, `{"a":null}`, `{"b":"c"}`},
		{`{"a":["b"]}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"c"}`, `{"a":["b"]}`, `{"a":["b"]}`},
		{`{"a":{"b":"c"}}`, `{"a":{"b":"d","c":null}}`, `{"a":{"b":"d"}}`},
		{`{"a":[{"b":"c"}]}`, `{"a":[1]}`, `{"a":[1]}`},
		{`["a","b"]`, `["c","d"]`, `["c","d"]`},
		{`{"a":"b"}`, `["c"]`, `["c"]`},
		{`{"a":"foo"}`, `null`, `null`},
		{`{"a":"foo"}`, `"bar"`, `"bar"`},
		{`{"e":null}`, `{"a":1}`, `{"e":null,"a":1}`},
		{`[1,2]`, `{"a":"b","c":null}`, `{"a":"b"}`},
		{`{}`, `{"a":{"bb":{"ccc":null}}}`, `{"a":{"bb":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.target+"+"+tt.patch, func(t *testing.T) {
			got, err := MergePatch(parse(t, tt.target), parse(t, tt.patch))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestMergePatch_KeepsKeyOrder(t *testing.T) {
	got, err := MergePatch(parse(t, `{"z":1,"m":{"y":1,"b":2},"a":3}`), parse(t, `{"m":{"b":5},"a":null}`))
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"m":{"y":1,"b":5}}`, marshal(t, got))
}

func TestSplitPath(t *testing.T) {
	segs, err := SplitPath("a.b.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "0"}, segs)

	segs, err = SplitPath(`host\.name.port`)
	require.NoError(t, err)
	assert.Equal(t, []string{"host.name", "port"}, segs)

	for _, bad := range []string{"", ".", "a..b", "a.", ".a", `a\`} {
		_, err := SplitPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestSetPath(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		path  string
		value any
		want  string
	}{
		{"top level", `{"hello":"world!"}`, "abc", 123, `{"hello":"world!","abc":123}`},
		{"creates objects", `{}`, "a.b.c", true, `{"a":{"b":{"c":true}}}`},
		{"null root", `null`, "a", 1, `{"a":1}`},
		{"array index", `{"l":[1,2]}`, "l.1", "two", `{"l":[1,"two"]}`},
		{"array append", `{"l":[1]}`, "l.1", 2, `{"l":[1,2]}`},
		{"array root", `[{"a":1}]`, "0.b", 2, `[{"a":1,"b":2}]`},
		{"null child", `{"a":null}`, "a.b", 1, `{"a":{"b":1}}`},
		{"escaped dot", `{}`, `host\.name`, "db", `{"host.name":"db"}`},
		{"object value", `{"a":1}`, "b", map[string]any{"c": []any{1}}, `{"a":1,"b":{"c":[1]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetPath(parse(t, tt.doc), tt.path, tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestSetPath_KeepsKeyOrder(t *testing.T) {
	got, err := SetPath(parse(t, `{"name":"x","version":1,"deps":{}}`), "version", 2)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","version":2,"deps":{}}`, marshal(t, got))

	got, err = SetPath(got, "deps.zlib", "1.3")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","version":2,"deps":{"zlib":"1.3"}}`, marshal(t, got))
}

func TestSetPath_Errors(t *testing.T) {
	_, err := SetPath(parse(t, `{"a":1}`), "a.b", 2)
	assert.ErrorIs(t, err, ErrNotContainer)

	for _, root := range []string{`"x"`, `42`, `true`} {
		_, err = SetPath(parse(t, root), "a", 1)
		assert.ErrorIs(t, err, ErrNotContainer, root)
	}

	_, err = SetPath(parse(t, `{"l":[1]}`), "l.5", 2)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = SetPath(parse(t, `{"l":[1]}`), "l.x", 2)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = SetPath(parse(t, `{}`), "", 2)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestDeletePath(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		want string
	}{
		{"top level", `{"a":1,"b":2}`, "a", `{"b":2}`},
		{"nested", `{"a":{"b":1,"c":2}}`, "a.b", `{"a":{"c":2}}`},
		{"missing key", `{"a":1}`, "x.y", `{"a":1}`},
		{"array element", `{"l":[1,2,3]}`, "l.1", `{"l":[1,3]}`},
		{"array out of range", `{"l":[1]}`, "l.4", `{"l":[1]}`},
		{"null parent", `{"a":null}`, "a.b", `{"a":null}`},
		{"keeps order", `{"c":1,"b":2,"a":3}`, "b", `{"c":1,"a":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeletePath(parse(t, tt.doc), tt.path)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestDeletePath_Errors(t *testing.T) {
	_, err := DeletePath(parse(t, `{"a":"s"}`), "a.b")
	assert.ErrorIs(t, err, ErrNotContainer)

	_, err = DeletePath(parse(t, `[1]`), "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, json.Number("42"), ParseValue("42"))
	assert.Equal(t, true, ParseValue("true"))
	assert.Nil(t, ParseValue("null"))
	assert.Equal(t, "quoted", ParseValue(`"quoted"`))
	assert.Equal(t, `{"a":1}`, marshal(t, ParseValue(`{"a":1}`)))
	assert.Equal(t, "hello", ParseValue("hello"))
	assert.Equal(t, "12abc", ParseValue("12abc"))
	assert.Equal(t, "", ParseValue(""))
}

func TestUpdaters_ThroughOrchestration(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := jsonfile.NewFileStore(fsys)
	ctx := context.Background()
	opts := &jsonupdate.Options[any]{Default: EmptyObject()}

	require.NoError(t, jsonupdate.Update(ctx, store, "/doc.json", Set("server.port", 8080), opts))
	require.NoError(t, jsonupdate.Update(ctx, store, "/doc.json", Merge(map[string]any{"name": "svc"}), opts))
	require.NoError(t, jsonupdate.Update(ctx, store, "/doc.json", Unset("server"), opts))

	data, err := afero.ReadFile(fsys, "/doc.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"svc"}`, string(data))

	require.NoError(t, jsonupdate.Update(ctx, store, "/doc.json", Replace([]any{1, 2}), opts))
	data, err = afero.ReadFile(fsys, "/doc.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(data))
}

func TestEmptyObject_FreshEachTime(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := jsonfile.NewFileStore(fsys)
	opts := &jsonupdate.Options[any]{Default: EmptyObject()}

	require.NoError(t, jsonupdate.Update(context.Background(), store, "/a.json", Set("a", 1), opts))
	require.NoError(t, jsonupdate.Update(context.Background(), store, "/b.json", Set("b", 2), opts))

	data, err := afero.ReadFile(fsys, "/b.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(data))
}
