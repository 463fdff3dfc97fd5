package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/chainreq/builder"
)

const yamlSuite = `
name: users
baseUri: http://localhost:8080
variables:
  token: secret
requests:
  - name: create user
    method: POST
    uri: /users
    body:
      name: alice
      roles: [admin, dev]
      age: 30
    expect:
      status: 201
      time: 500ms
    extract:
      userId: $.id
  - name: fetch user
    method: GET
    uri: /users/{{userId}}
    headers:
      Authorization: Bearer {{token}}
    expect:
      status: 200
      schema: user.schema.json
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSuite_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.yaml", yamlSuite)

	suite, err := LoadSuite(path)
	require.NoError(t, err)

	assert.Equal(t, "users", suite.Name)
	assert.Equal(t, "http://localhost:8080", suite.BaseURI)
	assert.Equal(t, dir, suite.Dir)
	assert.Equal(t, "secret", suite.Variables["token"])
	require.Len(t, suite.Requests, 2)

	create := suite.Requests[0]
	assert.Equal(t, "POST", create.Method)
	assert.Equal(t, "alice", create.Body["name"])
	assert.Equal(t, []any{"admin", "dev"}, create.Body["roles"])
	assert.Equal(t, 30, create.Body["age"])
	assert.Equal(t, 201, create.Expect.Status)
	assert.Equal(t, "500ms", create.Expect.Time)
	assert.Equal(t, "$.id", create.Extract["userId"])

	fetch := suite.Requests[1]
	assert.Equal(t, "Bearer {{token}}", fetch.Headers["Authorization"])
	assert.Equal(t, "user.schema.json", fetch.Expect.Schema)

	assert.Empty(t, ValidateSuite(suite))
}

func TestLoadSuite_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smoke.json", `{
		"baseUri": "http://localhost",
		"jsonBodies": true,
		"requests": [{"name": "ping", "method": "get", "uri": "/ping", "expect": {"status": 200}}]
	}`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)

	assert.Equal(t, "smoke", suite.Name, "name defaults to the file name")
	assert.True(t, suite.JSONBodies)
	require.Len(t, suite.Requests, 1)
	assert.Equal(t, 200, suite.Requests[0].Expect.Status)
	assert.Empty(t, ValidateSuite(suite))
}

func TestLoadSuite_Errors(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "suite file not found")

	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"requests": [`)
	_, err = LoadSuite(path)
	assert.ErrorContains(t, err, "error parsing JSON suite")
}

func TestSuite_SchemaText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "user.schema.json", `{"type": "object"}`)
	suite := &Suite{Dir: dir}

	text, err := suite.SchemaText(RequestSpec{Expect: Expect{Schema: "user.schema.json"}})
	require.NoError(t, err)
	assert.Equal(t, `{"type": "object"}`, text)

	text, err = suite.SchemaText(RequestSpec{Expect: Expect{Schema: ` {"type": "array"}`}})
	require.NoError(t, err)
	assert.Equal(t, `{"type": "array"}`, text)

	text, err = suite.SchemaText(RequestSpec{})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = suite.SchemaText(RequestSpec{Expect: Expect{Schema: "nope.json"}})
	assert.Error(t, err)
}

func TestParseSuite_BodyNumbersEncodeAsDecimals(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{
			name: "json",
			ext:  ".json",
			data: `{"requests": [{"name": "pay", "method": "POST", "uri": "/pay", "body": {"amount": 1000000, "ids": [1, 2]}}]}`,
		},
		{
			name: "yaml",
			ext:  ".yaml",
			data: "requests:\n  - name: pay\n    method: POST\n    uri: /pay\n    body:\n      amount: 1000000\n      ids: [1, 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := ParseSuite([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			require.Len(t, suite.Requests, 1)
			assert.Equal(t, "amount=1000000&ids=1&ids=2", builder.Form(suite.Requests[0].Body).Encode())
		})
	}
}
