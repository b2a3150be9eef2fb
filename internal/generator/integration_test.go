package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/pytyper/internal/analyzer"
	"github.com/mcncl/pytyper/internal/config"
	"github.com/mcncl/pytyper/internal/models"
	"github.com/mcncl/pytyper/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateFrom(t *testing.T, jsonInput, rootName string) string {
	t.Helper()
	ir, err := parser.ParseString(jsonInput)
	require.NoError(t, err)

	root, err := analyzer.NewAnalyzer().Analyze(ir, rootName)
	require.NoError(t, err)

	code, err := NewGenerator().Generate(root, true, true)
	require.NoError(t, err)
	return code
}

func TestIntegration_GoldenFiles(t *testing.T) {
	tests := []struct {
		sample   string
		golden   string
		rootName string
	}{
		{"ditto.json", "ditto.py", ""},
		{"users.json", "users.py", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			input, err := os.ReadFile(filepath.Join("..", "..", "testdata", "samples", tt.sample))
			require.NoError(t, err)
			expected, err := os.ReadFile(filepath.Join("..", "..", "testdata", "golden", tt.golden))
			require.NoError(t, err)

			assert.Equal(t, string(expected), generateFrom(t, string(input), tt.rootName))
		})
	}
}

func TestIntegration_ParserAnalyzerGenerator(t *testing.T) {
	jsonInput := `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"profile": {
			"full_name": "John Doe",
			"email": "john.doe@example.com"
		}
	}`

	expectedCode := `class User:
	def __init__(self, user_id=None, username=None, is_active=None, profile=None):
		self.user_id = user_id
		self.username = username
		self.is_active = is_active
		self.profile = profile

	@classmethod
	def from_json(cls, json):
		if json is None:
			return User()

		if type(json) is list:
			return [User.from_json(user) for user in json]

		return User(json.get('user_id'), json.get('username'), json.get('is_active'), Profile.from_json(json.get('profile')))


class Profile:
	def __init__(self, full_name=None, email=None):
		self.full_name = full_name
		self.email = email

	@classmethod
	def from_json(cls, json):
		if json is None:
			return Profile()

		if type(json) is list:
			return [Profile.from_json(profile) for profile in json]

		return Profile(json.get('full_name'), json.get('email'))
`

	assert.Equal(t, expectedCode, generateFrom(t, jsonInput, "user"))
}

func TestIntegration_ArrayRootUsesFirstElement(t *testing.T) {
	jsonInput := `[
		{"id": 1, "tags": ["a", "b"]},
		{"id": 2, "other": true}
	]`

	code := generateFrom(t, jsonInput, "item")
	assert.Contains(t, code, "class Item:\n\tdef __init__(self, id=None, tags=[]):")
	assert.NotContains(t, code, "other")
	assert.Contains(t, code, "return Item(json.get('id'), json.get('tags'))")
}

func TestIntegration_EmptyContainers(t *testing.T) {
	code := generateFrom(t, `{"meta": {}, "items": [], "rows": [[{"x": 1}]]}`, "")

	// An empty object is treated as a primitive and gets no class.
	assert.Contains(t, code, "def __init__(self, meta=None, items=[], rows=[]):")
	assert.NotContains(t, code, "class Meta")
	assert.NotContains(t, code, "class Rows")
	assert.Contains(t, code, "return Payload(json.get('meta'), json.get('items'), json.get('rows'))")
}

func TestIntegration_DuplicateKeysKeepFirstPosition(t *testing.T) {
	code := generateFrom(t, `{"a": 1, "b": 2, "a": {"c": 3}}`, "root")

	assert.Contains(t, code, "def __init__(self, a=None, b=None):")
	assert.Contains(t, code, "return Root(A.from_json(json.get('a')), json.get('b'))")
	assert.Contains(t, code, "class A:")
}

func TestIntegration_WithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Style = models.StyleCamelCase
	cfg.Output.Indent = config.IndentSpaces
	cfg.Output.IndentWidth = 4
	cfg.Output.FileHeader = "Generated by pytyper"

	ir, err := parser.ParseString(`{"first_name": "Ada", "home_address": {"zip_code": "N1"}}`)
	require.NoError(t, err)

	root, err := analyzer.NewAnalyzerWithConfig(cfg, nil).Analyze(ir, "person")
	require.NoError(t, err)

	code, err := NewGeneratorWithConfig(cfg, nil).Generate(root, cfg.Output.IncludeNested, cfg.Output.IncludeDeserializer)
	require.NoError(t, err)

	assert.Contains(t, code, "# Generated by pytyper\n\n\nclass Person:\n")
	assert.Contains(t, code, "    def __init__(self, firstName=None, homeAddress=None):\n")
	assert.Contains(t, code, "        self.firstName = firstName\n")
	assert.Contains(t, code, "        return Person(json.get('first_name'), HomeAddress.from_json(json.get('homeAddress')))\n")
	assert.Contains(t, code, "class HomeAddress:\n    def __init__(self, zipCode=None):\n")
	assert.NotContains(t, code, "\t")
}
