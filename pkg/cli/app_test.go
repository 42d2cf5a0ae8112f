package cli

import (
	"os"
	"testing"

	"github.com/mchmarny/termpulse/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logging.SetDefaultCLILogger("debug")
	os.Exit(m.Run())
}

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, name, app.Name)
	assert.NotEmpty(t, app.Version)

	want := []string{"auth", "import", "compute", "query", "server", "reset"}
	var got []string
	for _, cmd := range app.Commands {
		got = append(got, cmd.Name)
	}
	assert.Equal(t, want, got)
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))

	v := optional("main")
	if assert.NotNil(t, v) {
		assert.Equal(t, "main", *v)
	}
}

func TestEncode(t *testing.T) {
	in := struct {
		Name string `json:"name" yaml:"name"`
	}{Name: "test"}

	outputFormat = formatJSON
	assert.NoError(t, encode(in))

	outputFormat = formatYAML
	assert.NoError(t, encode(in))
	outputFormat = formatJSON
}
