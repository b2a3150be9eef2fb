package e2e_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// runPython executes script with the generated module importable as
// "models" and any extra files next to it. Tests are skipped when no
// interpreter is available.
func runPython(t *testing.T, module, script string, extra map[string][]byte) string {
	t.Helper()
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.py"), []byte(module), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check.py"), []byte(script), 0o644))
	for name, data := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	cmd := exec.Command(python, "check.py")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "generated code failed: %s\n%s", out, module)
	return strings.TrimSpace(string(out))
}

// TestEndToEnd_ComplexNestedStructures checks that generated code loads
// the sample it was generated from.
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	jsonContent := `{
		"id": "abc-123",
		"class": "premium",
		"created_at": "2023-01-15T14:30:00Z",
		"config": {
			"max_retries": 3,
			"timeout": 30.5,
			"features": ["alpha", "beta"],
			"limits": {"daily": 100}
		},
		"users": [
			{"user_id": 1, "roles": [{"name": "admin"}]},
			{"user_id": 2, "roles": []}
		],
		"stats": {},
		"tags": []
	}`

	code, stderr, err := runCLI(t, jsonContent, "-r", "account")
	require.NoError(t, err, stderr)

	assert.Contains(t, code, "class Account:")
	assert.Contains(t, code, "def __init__(self, id=None, class_=None, created_at=None, config=None, users=[], stats=None, tags=[]):")
	for _, name := range []string{"Config", "Limits", "Users", "Roles"} {
		assert.Contains(t, code, "class "+name+":")
	}
	assert.NotContains(t, code, "class Stats:")

	script := `import json
from models import Account

data = json.loads('''` + jsonContent + `''')
a = Account.from_json(data)
print(a.class_, a.config.max_retries, a.config.limits.daily, a.users[0].roles[0].name, len(a.users[1].roles), a.stats, a.tags)

empty = Account.from_json(None)
print(empty.id, empty.users)

many = Account.from_json([data, data])
print(len(many))
`
	out := runPython(t, code, script, nil)
	assert.Equal(t, "premium 3 100 admin 0 {} []\nNone []\n2", out)
}

// TestEndToEnd_KeysWithoutUpperCase checks keys whose class names cannot
// be capitalized, so loop variables and locals must not reuse them.
func TestEndToEnd_KeysWithoutUpperCase(t *testing.T) {
	jsonContent := `{"_id": {"$oid": "x"}, "@type": [{"v": 1}], "items": [{"n": 2}], "_items": {"m": 3}}`

	code, stderr, err := runCLI(t, jsonContent)
	require.NoError(t, err, stderr)
	assert.Contains(t, code, "class _id:")
	assert.Contains(t, code, "class _type:")
	assert.Contains(t, code, "return [_id.from_json(item) for item in json]")

	script := `import json
from models import Payload, _id, _type

data = json.loads('''` + jsonContent + `''')
p = Payload.from_json(data)
print(p._id._oid, len(p._type), p._type[0].v, p.items[0].n, p._items.m)

print(_id.from_json([{"$oid": "y"}, {"$oid": "z"}])[1]._oid)
print(len(_type.from_json([{"v": 1}, {"v": 2}])))
print(Payload.from_json([data])[0]._type[0].v)
`
	out := runPython(t, code, script, nil)
	assert.Equal(t, "x 1 1 2 3\nz\n2\n1", out)
}

// TestEndToEnd_ListOfScalarsInClassField checks that a bad item in a list
// of classes raises instead of loading as an empty list.
func TestEndToEnd_ListOfScalarsInClassField(t *testing.T) {
	code, stderr, err := runCLI(t, `{"moves": [{"name": "transform"}]}`)
	require.NoError(t, err, stderr)

	script := `from models import Payload

print(Payload.from_json({"moves": None}).moves)
try:
    Payload.from_json({"moves": ["transform"]})
    print("loaded")
except AttributeError:
    print("raised")
`
	out := runPython(t, code, script, nil)
	assert.Equal(t, "[]\nraised", out)
}

// TestEndToEnd_GoldenSamples checks the checked-in samples against their
// golden output and that the output runs.
func TestEndToEnd_GoldenSamples(t *testing.T) {
	tests := []struct {
		sample string
		golden string
		args   []string
		script string
		want   string
	}{
		{
			sample: "ditto.json",
			golden: "ditto.py",
			script: "from models import Payload\np = Payload.from_json(SAMPLE)\nprint(p.name, p.moves[0].name)\n",
			want:   "Ditto transform",
		},
		{
			sample: "users.json",
			golden: "users.py",
			args:   []string{"-r", "user"},
			script: "from models import User\nu = User.from_json(SAMPLE)\nprint(len(u), u[0].address.geo.lat, u[1].company.name)\n",
			want:   "2 -37.3159 Deckow-Crist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			input, err := os.ReadFile(filepath.Join("..", "..", "testdata", "samples", tt.sample))
			require.NoError(t, err)
			expected, err := os.ReadFile(filepath.Join("..", "..", "testdata", "golden", tt.golden))
			require.NoError(t, err)

			code, stderr, err := runCLI(t, string(input), tt.args...)
			require.NoError(t, err, stderr)
			assert.Equal(t, string(expected), code)

			script := "import json\nSAMPLE = json.loads(open('sample.json').read())\n" + tt.script
			out := runPython(t, code, script, map[string][]byte{"sample.json": input})
			assert.Equal(t, tt.want, out)
		})
	}
}

// TestEndToEnd_HeterogeneousArrays tests that only the first array element
// shapes the generated class
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	jsonContent := `{
		"mixed_array": [1, "string", true, null, {"nested": "object"}],
		"mixed_objects": [
			{"type": "user", "id": 1, "name": "Alice"},
			{"type": "group", "id": 2, "members": 5}
		]
	}`

	output, stderr, err := runCLI(t, jsonContent)
	require.NoError(t, err, stderr)

	assert.Contains(t, output, "def __init__(self, mixed_array=[], mixed_objects=[]):")
	assert.Contains(t, output, "class MixedObjects:\n\tdef __init__(self, type=None, id=None, name=None):")
	assert.NotContains(t, output, "members")
	assert.NotContains(t, output, "class MixedArray")
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected string
		isError  bool
	}{
		{"EmptyObject", `{}`, "root object is empty", true},
		{"EmptyArray", `[]`, "root array holds no JSON object", true},
		{"SingleValue", `"just a string"`, "root value is a string", true},
		{"SingleNumber", `42`, "root value is a number", true},
		{"SingleBoolean", `true`, "root value is a boolean", true},
		{"SingleNull", `null`, "root value is null", true},
		{"InvalidJSON", `{"name": "Invalid JSON",}`, "JSON parsing error", true},
		{"MultipleValues", `{"a": 1} {"b": 2}`, "JSON parsing error", true},
		{
			name:     "DeeplyNestedObject",
			json:     `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			expected: "class Level5:\n\tdef __init__(self, value=None):",
		},
		{"DeeplyNestedArray", `[[[[[[{"x": 42}]]]]]]`, "class Payload:\n\tdef __init__(self, x=None):", false},
		{"KeywordKeys", `{"from": 1, "import": 2, "self": 3}`, "def __init__(self, from_=None, import_=None, self_=None):", false},
		{"InvalidIdentifiers", `{"first-name": "a", "2fa": true}`, "def __init__(self, first_name=None, _2fa=None):", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tc.json)

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Contains(t, stderr, tc.expected)
			} else {
				assert.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr)
				assert.Contains(t, stdout, tc.expected, "Expected output not found for %s", tc.name)
			}
		})
	}
}
