package scene_test

import (
	"fmt"
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserializeRejectsUnknownVersion(t *testing.T) {
	_, err := scene.Deserialize([]byte("version: 2\nentities: {}\n"), newRegistry())
	require.ErrorIs(t, err, scene.ErrUnsupportedVersion)

	_, err = scene.Deserialize([]byte(""), newRegistry())
	require.ErrorIs(t, err, scene.ErrUnsupportedVersion)
}

func TestDeserializeRejectsUnknownType(t *testing.T) {
	data := []byte(`version: 1
entities:
  7:
    components:
      example.com/elsewhere.Thing: {}
`)
	_, err := scene.Deserialize(data, newRegistry())
	require.ErrorIs(t, err, scene.ErrUnknownType)
	assert.Contains(t, err.Error(), "example.com/elsewhere.Thing")
}

func TestDeserializeRejectsNonReflectedType(t *testing.T) {
	data := []byte(`version: 1
entities:
  7:
    components:
      github.com/plus3/scenery/scene_test.Secret:
        Code: x
`)
	_, err := scene.Deserialize(data, newRegistry())
	require.ErrorIs(t, err, scene.ErrUnknownType)
}

func TestDeserializeRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not yaml":     "version: [1",
		"bad id":       "version: 1\nentities:\n  abc:\n    components: {}\n",
		"list":         "version: 1\nentities: [1, 2]\n",
		"bad value":    "version: 1\nentities:\n  1:\n    components:\n      github.com/plus3/scenery/scene_test.Score:\n        value: many\n",
		"bad comp map": "version: 1\nentities:\n  1:\n    components: [a]\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scene.Deserialize([]byte(input), newRegistry())
			assert.Error(t, err)
		})
	}
}

func TestDeserializeRejectsDuplicateKeys(t *testing.T) {
	cases := map[string]string{
		"component": `version: 1
entities:
  1:
    components:
      github.com/plus3/scenery/scene_test.Label: {text: a}
      github.com/plus3/scenery/scene_test.Label: {text: b}
`,
		"entity": `version: 1
entities:
  1:
    components:
      github.com/plus3/scenery/scene_test.Tag: {}
  1:
    components:
      github.com/plus3/scenery/scene_test.Tag: {}
`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scene.Deserialize([]byte(input), newRegistry())
			require.ErrorIs(t, err, scene.ErrDuplicate)
		})
	}
}

func TestDeserializeEmptyScene(t *testing.T) {
	decoded, err := scene.Deserialize([]byte("version: 1\n"), newRegistry())
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Len())

	decoded, err = scene.Deserialize([]byte("version: 1\nentities: {}\n"), newRegistry())
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Len())
}

func TestSerializeRejectsNonReflectedComponents(t *testing.T) {
	built := &scene.DynamicScene{Entities: []scene.DynamicEntity{
		{Entity: 1, Components: []any{Secret{Code: "x"}}},
	}}
	_, err := scene.Serialize(built, newRegistry())
	require.ErrorIs(t, err, scene.ErrUnknownType)
}

func ExampleSerialize() {
	storage := ecs.NewStorage(newRegistry())
	storage.Spawn(Label{Text: "crate"}, Score{Value: 3, Weight: 0.5}, Tag{})
	storage.Spawn(Label{Text: "not saved"})

	built := scene.ExtractTagged[Tag](scene.NewBuilder(storage)).Build()
	data, err := scene.Serialize(built, storage.Registry())
	if err != nil {
		panic(err)
	}
	fmt.Print(string(data))
	// Output:
	// version: 1
	// entities:
	//   4294967296:
	//     components:
	//       github.com/plus3/scenery/scene_test.Label:
	//         text: crate
	//       github.com/plus3/scenery/scene_test.Score:
	//         value: 3
	//         weight: 0.5
	//       github.com/plus3/scenery/scene_test.Tag: {}
}
